package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/laneworks/laneworks/internal/core/lanes"
	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	"github.com/laneworks/laneworks/internal/services/center/domain"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	"github.com/laneworks/laneworks/internal/services/center/storage"
)

// RangeInput is one proposed lane range. PinFallType carries the stable
// external code, FF or SP.
type RangeInput struct {
	StartLane   int
	EndLane     int
	PinFallType string
}

// ConfigureLayout validates the proposed ranges through the lane engine
// and stores them as the center's layout. Replacing an existing layout
// destroys any prior arrangement, so it requires a layout grant issued
// for this center; the first layout needs none.
func (s *Service) ConfigureLayout(ctx context.Context, centerID string, ranges []RangeInput, grantToken string) (domain.Center, error) {
	if s == nil || s.store == nil {
		return domain.Center{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}

	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return domain.Center{}, err
	}

	config, err := buildConfiguration(ranges)
	if err != nil {
		return domain.Center{}, err
	}

	existing, err := s.store.GetLayout(ctx, center.ID)
	if err != nil {
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "load current layout", err)
	}
	if len(existing) > 0 {
		if len(s.grants.Key) == 0 {
			return domain.Center{}, apperrors.New(apperrors.CodeInternal, "layout grant verification is not configured")
		}
		if _, err := grant.Validate(grantToken, center.ID, s.grants); err != nil {
			return domain.Center{}, err
		}
	}

	now := s.now()
	if err := s.store.ReplaceLayout(ctx, center.ID, layoutRecords(center.ID, config), now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Center{}, apperrors.New(apperrors.CodeCenterNotFound, "center not found")
		}
		return domain.Center{}, apperrors.Wrap(apperrors.CodeInternal, "store layout", err)
	}
	return domain.ApplyLayout(center, config, func() time.Time { return now }), nil
}

// GetLayout returns the center's stored lane layout, rebuilt through
// the engine so every read carries the validated invariants.
func (s *Service) GetLayout(ctx context.Context, centerID string) (lanes.LaneConfiguration, error) {
	if s == nil || s.store == nil {
		return lanes.LaneConfiguration{}, apperrors.New(apperrors.CodeInternal, "center store is not configured")
	}

	center, err := s.GetCenter(ctx, centerID)
	if err != nil {
		return lanes.LaneConfiguration{}, err
	}
	rows, err := s.store.GetLayout(ctx, center.ID)
	if err != nil {
		return lanes.LaneConfiguration{}, apperrors.Wrap(apperrors.CodeInternal, "load layout", err)
	}
	if len(rows) == 0 {
		return lanes.LaneConfiguration{}, apperrors.New(apperrors.CodeLayoutMissing, "center has no lane layout configured")
	}
	config, err := configurationFromRecords(rows)
	if err != nil {
		return lanes.LaneConfiguration{}, apperrors.Wrap(apperrors.CodeInternal, "stored layout failed validation", err)
	}
	return config, nil
}

// ListLanePairs returns every bookable lane pair of the center's
// layout, ordered by lane number.
func (s *Service) ListLanePairs(ctx context.Context, centerID string) ([]lanes.LanePair, error) {
	config, err := s.GetLayout(ctx, centerID)
	if err != nil {
		return nil, err
	}
	return config.LanePairs(), nil
}

// buildConfiguration runs the proposed ranges through the lane engine.
// Validation is fail-fast, so the first violated rule wins.
func buildConfiguration(ranges []RangeInput) (lanes.LaneConfiguration, error) {
	engineRanges := make([]lanes.LaneRange, 0, len(ranges))
	for _, input := range ranges {
		code := strings.ToUpper(strings.TrimSpace(input.PinFallType))
		pinFallType := lanes.PinFallTypeUnspecified
		if code != "" {
			parsed, err := lanes.ParsePinFallType(code)
			if err != nil {
				return lanes.LaneConfiguration{}, apperrors.WrapWithMetadata(apperrors.CodeLayoutInvalid, "unknown pin fall type code", map[string]string{
					"pin_fall_type": code,
				}, err)
			}
			pinFallType = parsed
		}
		engineRange, err := lanes.CreateLaneRange(input.StartLane, input.EndLane, pinFallType)
		if err != nil {
			return lanes.LaneConfiguration{}, wrapLayoutError(err)
		}
		engineRanges = append(engineRanges, engineRange)
	}
	config, err := lanes.CreateLaneConfiguration(engineRanges)
	if err != nil {
		return lanes.LaneConfiguration{}, wrapLayoutError(err)
	}
	return config, nil
}

// wrapLayoutError lifts an engine validation failure into the platform
// error shape, keeping the engine rule code in metadata under reason.
func wrapLayoutError(err error) error {
	var layoutErr *lanes.Error
	if errors.As(err, &layoutErr) {
		metadata := map[string]string{"reason": string(layoutErr.Code)}
		for key, value := range layoutErr.Metadata {
			metadata[key] = value
		}
		return apperrors.WrapWithMetadata(apperrors.CodeLayoutInvalid, layoutErr.Message, metadata, err)
	}
	return apperrors.Wrap(apperrors.CodeLayoutInvalid, "invalid lane layout", err)
}

func layoutRecords(centerID string, config lanes.LaneConfiguration) []storage.LaneRangeRecord {
	ranges := config.Ranges()
	records := make([]storage.LaneRangeRecord, 0, len(ranges))
	for i, r := range ranges {
		records = append(records, storage.LaneRangeRecord{
			CenterID:    centerID,
			Position:    i,
			StartLane:   r.StartLane,
			EndLane:     r.EndLane,
			PinFallType: r.PinFallType.Code(),
		})
	}
	return records
}

func configurationFromRecords(rows []storage.LaneRangeRecord) (lanes.LaneConfiguration, error) {
	ranges := make([]lanes.LaneRange, 0, len(rows))
	for _, row := range rows {
		pinFallType, err := lanes.ParsePinFallType(row.PinFallType)
		if err != nil {
			return lanes.LaneConfiguration{}, err
		}
		r, err := lanes.CreateLaneRange(row.StartLane, row.EndLane, pinFallType)
		if err != nil {
			return lanes.LaneConfiguration{}, err
		}
		ranges = append(ranges, r)
	}
	return lanes.CreateLaneConfiguration(ranges)
}
