// Package domain models bowling centers and their lane layouts.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/laneworks/laneworks/internal/core/lanes"
	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	"github.com/laneworks/laneworks/internal/platform/id"
)

const (
	// MaxNameLength caps center display names.
	MaxNameLength = 120
	// MaxSlugLength caps center slugs.
	MaxSlugLength = 60
)

// slugPattern accepts lowercase letters, digits, and interior hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	// ErrNameEmpty indicates a missing center name.
	ErrNameEmpty = apperrors.New(apperrors.CodeCenterNameEmpty, "center name is required")
	// ErrNameTooLong indicates a center name over the length cap.
	ErrNameTooLong = apperrors.New(apperrors.CodeCenterNameTooLong, "center name is too long")
	// ErrSlugEmpty indicates a missing center slug.
	ErrSlugEmpty = apperrors.New(apperrors.CodeCenterSlugEmpty, "center slug is required")
	// ErrSlugInvalid indicates a slug outside the allowed format.
	ErrSlugInvalid = apperrors.New(apperrors.CodeCenterSlugInvalid, "center slug format is invalid")
	// ErrTimezoneInvalid indicates an unknown IANA timezone name.
	ErrTimezoneInvalid = apperrors.New(apperrors.CodeCenterTimezoneInvalid, "center timezone is unknown")
)

// Center represents one bowling center and its optional lane layout.
type Center struct {
	ID   string
	Name string
	// Slug is the unique URL-safe handle for the center.
	Slug string
	// Timezone is the IANA zone name used for the center's schedule.
	Timezone string
	// Layout is nil until the center's lanes have been configured.
	Layout    *lanes.LaneConfiguration
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLayout reports whether the center's lanes have been configured.
func (c Center) HasLayout() bool {
	return c.Layout != nil
}

// CreateCenterInput describes the metadata needed to register a center.
type CreateCenterInput struct {
	Name     string
	Slug     string
	Timezone string
}

// CreateCenter creates a new center with a generated ID and timestamps.
func CreateCenter(input CreateCenterInput, now func() time.Time, idGenerator func() (string, error)) (Center, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateCenterInput(input)
	if err != nil {
		return Center{}, err
	}

	centerID, err := idGenerator()
	if err != nil {
		return Center{}, fmt.Errorf("generate center id: %w", err)
	}

	createdAt := now().UTC()
	return Center{
		ID:        centerID,
		Name:      normalized.Name,
		Slug:      normalized.Slug,
		Timezone:  normalized.Timezone,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeCreateCenterInput trims and validates center input metadata.
func NormalizeCreateCenterInput(input CreateCenterInput) (CreateCenterInput, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return CreateCenterInput{}, err
	}
	input.Name = name

	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return CreateCenterInput{}, err
	}
	input.Slug = slug

	timezone, err := normalizeTimezone(input.Timezone)
	if err != nil {
		return CreateCenterInput{}, err
	}
	input.Timezone = timezone

	return input, nil
}

// RenameCenter applies a validated name change and updates timestamps.
func RenameCenter(center Center, name string, now func() time.Time) (Center, error) {
	if now == nil {
		now = time.Now
	}
	normalized, err := normalizeName(name)
	if err != nil {
		return Center{}, err
	}

	updated := center
	updated.Name = normalized
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// ApplyLayout attaches a validated lane configuration and updates timestamps.
func ApplyLayout(center Center, layout lanes.LaneConfiguration, now func() time.Time) Center {
	if now == nil {
		now = time.Now
	}
	updated := center
	updated.Layout = &layout
	updated.UpdatedAt = now().UTC()
	return updated
}

// NormalizeSlug lowercases and validates a center slug.
func NormalizeSlug(value string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(value))
	if slug == "" {
		return "", ErrSlugEmpty
	}
	if len(slug) > MaxSlugLength {
		return "", apperrors.WithMetadata(
			apperrors.CodeCenterSlugInvalid,
			"center slug is too long",
			map[string]string{"max_length": strconv.Itoa(MaxSlugLength)},
		)
	}
	if !slugPattern.MatchString(slug) {
		return "", ErrSlugInvalid
	}
	return slug, nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", ErrNameEmpty
	}
	if len(name) > MaxNameLength {
		return "", apperrors.WithMetadata(
			apperrors.CodeCenterNameTooLong,
			"center name is too long",
			map[string]string{"max_length": strconv.Itoa(MaxNameLength)},
		)
	}
	return name, nil
}

func normalizeTimezone(value string) (string, error) {
	timezone := strings.TrimSpace(value)
	if timezone == "" {
		return "UTC", nil
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return "", apperrors.WithMetadata(
			apperrors.CodeCenterTimezoneInvalid,
			"center timezone is unknown",
			map[string]string{"timezone": timezone},
		)
	}
	return timezone, nil
}
