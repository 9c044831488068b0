package service

import (
	"context"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	"github.com/laneworks/laneworks/internal/platform/pagination"
	"github.com/laneworks/laneworks/internal/services/center/domain"
	"github.com/laneworks/laneworks/internal/services/center/storage"
	"github.com/laneworks/laneworks/internal/services/center/storage/cursor"
	"github.com/laneworks/laneworks/internal/services/center/storage/filter"
)

const (
	defaultListCentersPageSize = 20

	// MaxListCentersPageSize caps how many centers one page may carry.
	MaxListCentersPageSize = 100
)

// ListCentersInput carries the paging and filtering arguments for
// ListCenters. A zero PageSize selects the default.
type ListCentersInput struct {
	PageSize  int
	PageToken string
	Filter    string
}

// CenterPage is one page of centers with the token for the next page.
// NextPageToken is empty on the final page.
type CenterPage struct {
	Centers       []domain.Center
	NextPageToken string
}

// ListCenters returns a page of centers ordered by ID. Filters use the
// AIP-160 subset over name, slug, timezone, and created_at. Page tokens
// are opaque and bound to the filter they were issued for.
func (s *Service) ListCenters(ctx context.Context, input ListCentersInput) (CenterPage, error) {
	if s == nil || s.store == nil {
		return CenterPage{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}

	pageSize := pagination.ClampPageSize(input.PageSize, pagination.PageSizeConfig{
		Default: defaultListCentersPageSize,
		Max:     MaxListCentersPageSize,
	})
	condition, err := filter.ParseCenterFilter(input.Filter)
	if err != nil {
		return CenterPage{}, apperrors.Wrap(apperrors.CodeListFilterInvalid, "parse list filter", err)
	}

	afterID := ""
	if input.PageToken != "" {
		decoded, err := cursor.Decode(input.PageToken)
		if err != nil {
			return CenterPage{}, apperrors.Wrap(apperrors.CodeListPageTokenInvalid, "decode list page token", err)
		}
		if err := cursor.ValidateFilterHash(decoded, input.Filter); err != nil {
			return CenterPage{}, apperrors.New(apperrors.CodeListPageTokenInvalid, "list page token does not match the filter")
		}
		afterID = decoded.LastID
	}

	page, err := s.store.ListCenters(ctx, storage.ListCentersQuery{
		PageSize:     pageSize,
		AfterID:      afterID,
		FilterClause: condition.Clause,
		FilterParams: condition.Params,
	})
	if err != nil {
		return CenterPage{}, apperrors.Wrap(apperrors.CodeInternal, "list centers", err)
	}

	out := CenterPage{Centers: make([]domain.Center, 0, len(page.Centers))}
	for _, record := range page.Centers {
		out.Centers = append(out.Centers, centerFromRecord(record))
	}
	if page.NextAfterID != "" {
		token, err := cursor.Encode(cursor.New(page.NextAfterID, input.Filter))
		if err != nil {
			return CenterPage{}, apperrors.Wrap(apperrors.CodeInternal, "encode list page token", err)
		}
		out.NextPageToken = token
	}
	return out, nil
}
