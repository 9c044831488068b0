// Package service coordinates center registry operations across the
// lane engine, grant checks, and storage.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	"github.com/laneworks/laneworks/internal/platform/id"
	"github.com/laneworks/laneworks/internal/services/center/domain"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	"github.com/laneworks/laneworks/internal/services/center/storage"
)

// Service exposes the center registry operations served over HTTP and
// reused in-process by the seed and scenario tooling.
type Service struct {
	store  storage.CenterStore
	grants grant.Config
	clock  func() time.Time
	newID  func() (string, error)
}

// NewService creates a center service backed by center storage. The
// grant config may be zero when no layout replacement is expected, for
// example while seeding fresh centers.
func NewService(store storage.CenterStore, grants grant.Config) *Service {
	return &Service{
		store:  store,
		grants: grants,
		clock:  time.Now,
		newID:  id.NewID,
	}
}

// CreateCenter registers a new center without a lane layout.
func (s *Service) CreateCenter(ctx context.Context, input domain.CreateCenterInput) (domain.Center, error) {
	if s == nil || s.store == nil {
		return domain.Center{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}

	center, err := domain.CreateCenter(input, s.clock, s.newID)
	if err != nil {
		return domain.Center{}, err
	}
	if err := s.store.CreateCenter(ctx, recordFromCenter(center)); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return domain.Center{}, apperrors.WithMetadata(apperrors.CodeCenterExists, "center slug is already in use", map[string]string{
				"slug": center.Slug,
			})
		}
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "create center", err)
	}
	return center, nil
}

// GetCenter returns one center by ID.
func (s *Service) GetCenter(ctx context.Context, centerID string) (domain.Center, error) {
	if s == nil || s.store == nil {
		return domain.Center{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
	}

	record, err := s.store.GetCenter(ctx, centerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
		}
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "get center", err)
	}
	return centerFromRecord(record), nil
}

// GetCenterBySlug returns one center by its URL slug.
func (s *Service) GetCenterBySlug(ctx context.Context, slug string) (domain.Center, error) {
	if s == nil || s.store == nil {
		return domain.Center{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}
	normalized, err := domain.NormalizeSlug(slug)
	if err != nil {
		return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
	}

	record, err := s.store.GetCenterBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
		}
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "get center by slug", err)
	}
	return centerFromRecord(record), nil
}

// RenameCenter changes a center's display name. The slug never changes.
func (s *Service) RenameCenter(ctx context.Context, centerID, name string) (domain.Center, error) {
	if s == nil || s.store == nil {
		return domain.Center{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}

	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return domain.Center{}, err
	}
	renamed, err := domain.RenameCenter(center, name, s.clock)
	if err != nil {
		return domain.Center{}, err
	}
	if err := s.store.RenameCenter(ctx, renamed.ID, renamed.Name, renamed.UpdatedAt); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
		}
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "rename center", err)
	}
	return renamed, nil
}

// DeleteCenter removes a center and its lane layout.
func (s *Service) DeleteCenter(ctx context.Context, centerID string) error {
	if s == nil || s.store == nil {
		return apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return apperrors.New(apperrors.CodeCenterNotFound, "center not found")
	}

	if err := s.store.DeleteCenter(ctx, centerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeCenterNotFound, "center not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, "delete center", err)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

func centerFromRecord(record storage.CenterRecord) domain.Center {
	return domain.Center{
		ID:        record.ID,
		Name:      record.Name,
		Slug:      record.Slug,
		Timezone:  record.Timezone,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func recordFromCenter(center domain.Center) storage.CenterRecord {
	return storage.CenterRecord{
		ID:        center.ID,
		Name:      center.Name,
		Slug:      center.Slug,
		Timezone:  center.Timezone,
		CreatedAt: center.CreatedAt,
		UpdatedAt: center.UpdatedAt,
	}
}
