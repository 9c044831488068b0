// Package storage defines persistence contracts for center service state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested center record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained center already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// CenterRecord stores one bowling center row.
type CenterRecord struct {
	ID        string
	Name      string
	Slug      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LaneRangeRecord stores one ordered lane range row of a center layout.
// PinFallType holds the stable wire code for the range's pin setter.
type LaneRangeRecord struct {
	CenterID    string
	Position    int
	StartLane   int
	EndLane     int
	PinFallType string
}

// ListCentersQuery captures keyset pagination and filtering inputs.
// AfterID is the exclusive lower bound for the ID keyset walk; the
// filter clause and params come from the filter package translation.
type ListCentersQuery struct {
	PageSize     int
	AfterID      string
	FilterClause string
	FilterParams []any
}

// CenterPage stores one page of center rows. NextAfterID carries the
// keyset key for the following page and is empty on the last page.
type CenterPage struct {
	Centers     []CenterRecord
	NextAfterID string
}

// CenterStore persists center records and their lane layouts.
type CenterStore interface {
	CreateCenter(ctx context.Context, center CenterRecord) error
	GetCenter(ctx context.Context, centerID string) (CenterRecord, error)
	GetCenterBySlug(ctx context.Context, slug string) (CenterRecord, error)
	ListCenters(ctx context.Context, query ListCentersQuery) (CenterPage, error)
	RenameCenter(ctx context.Context, centerID, name string, updatedAt time.Time) error
	DeleteCenter(ctx context.Context, centerID string) error
	ReplaceLayout(ctx context.Context, centerID string, ranges []LaneRangeRecord, updatedAt time.Time) error
	GetLayout(ctx context.Context, centerID string) ([]LaneRangeRecord, error)
}
