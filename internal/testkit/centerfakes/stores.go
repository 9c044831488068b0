// Package centerfakes provides in-memory stores used by center service tests.
//
// These fakes capture enough behavior for service-level tests without requiring
// sqlite or the filter translation layer.
package centerfakes

import (
	"context"
	"sort"
	"time"

	"github.com/laneworks/laneworks/internal/services/center/storage"
)

// CenterStore is a lightweight in-memory CenterStore fake for tests.
// The error fields, when set, force the matching method to fail.
type CenterStore struct {
	Centers map[string]storage.CenterRecord
	Layouts map[string][]storage.LaneRangeRecord

	ListCentersErr   error
	ReplaceLayoutErr error
	GetLayoutErr     error
}

// NewCenterStore constructs a CenterStore fake with initialized state maps.
func NewCenterStore() *CenterStore {
	return &CenterStore{
		Centers: make(map[string]storage.CenterRecord),
		Layouts: make(map[string][]storage.LaneRangeRecord),
	}
}

func (f *CenterStore) CreateCenter(_ context.Context, record storage.CenterRecord) error {
	if _, exists := f.Centers[record.ID]; exists {
		return storage.ErrAlreadyExists
	}
	for _, existing := range f.Centers {
		if existing.Slug == record.Slug {
			return storage.ErrAlreadyExists
		}
	}
	f.Centers[record.ID] = record
	return nil
}

func (f *CenterStore) GetCenter(_ context.Context, centerID string) (storage.CenterRecord, error) {
	if record, ok := f.Centers[centerID]; ok {
		return record, nil
	}
	return storage.CenterRecord{}, storage.ErrNotFound
}

func (f *CenterStore) GetCenterBySlug(_ context.Context, slug string) (storage.CenterRecord, error) {
	for _, record := range f.Centers {
		if record.Slug == slug {
			return record, nil
		}
	}
	return storage.CenterRecord{}, storage.ErrNotFound
}

// ListCenters pages over centers ordered by ID. Filter clauses are not
// interpreted; tests needing filter behavior go through sqlite.
func (f *CenterStore) ListCenters(_ context.Context, query storage.ListCentersQuery) (storage.CenterPage, error) {
	if f.ListCentersErr != nil {
		return storage.CenterPage{}, f.ListCentersErr
	}
	ids := make([]string, 0, len(f.Centers))
	for id := range f.Centers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if query.AfterID != "" {
		start = sort.Search(len(ids), func(i int) bool {
			return ids[i] > query.AfterID
		})
	}
	if start >= len(ids) {
		return storage.CenterPage{}, nil
	}
	end := start + query.PageSize
	if end > len(ids) {
		end = len(ids)
	}

	page := storage.CenterPage{
		Centers: make([]storage.CenterRecord, 0, end-start),
	}
	for _, id := range ids[start:end] {
		page.Centers = append(page.Centers, f.Centers[id])
	}
	if end < len(ids) {
		page.NextAfterID = ids[end-1]
	}
	return page, nil
}

func (f *CenterStore) RenameCenter(_ context.Context, centerID, name string, updatedAt time.Time) error {
	record, ok := f.Centers[centerID]
	if !ok {
		return storage.ErrNotFound
	}
	record.Name = name
	record.UpdatedAt = updatedAt
	f.Centers[centerID] = record
	return nil
}

func (f *CenterStore) DeleteCenter(_ context.Context, centerID string) error {
	if _, ok := f.Centers[centerID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.Centers, centerID)
	delete(f.Layouts, centerID)
	return nil
}

func (f *CenterStore) ReplaceLayout(_ context.Context, centerID string, ranges []storage.LaneRangeRecord, updatedAt time.Time) error {
	if f.ReplaceLayoutErr != nil {
		return f.ReplaceLayoutErr
	}
	record, ok := f.Centers[centerID]
	if !ok {
		return storage.ErrNotFound
	}
	record.UpdatedAt = updatedAt
	f.Centers[centerID] = record
	f.Layouts[centerID] = append([]storage.LaneRangeRecord(nil), ranges...)
	return nil
}

func (f *CenterStore) GetLayout(_ context.Context, centerID string) ([]storage.LaneRangeRecord, error) {
	if f.GetLayoutErr != nil {
		return nil, f.GetLayoutErr
	}
	return append([]storage.LaneRangeRecord(nil), f.Layouts[centerID]...), nil
}
