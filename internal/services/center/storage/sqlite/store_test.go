package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/laneworks/laneworks/internal/services/center/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateGetCenterRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)
	input := storage.CenterRecord{
		ID:        "center-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "America/Chicago",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateCenter(context.Background(), input); err != nil {
		t.Fatalf("create center: %v", err)
	}

	got, err := store.GetCenter(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get center: %v", err)
	}
	if got.Name != input.Name {
		t.Fatalf("name = %q, want %q", got.Name, input.Name)
	}
	if got.Slug != input.Slug {
		t.Fatalf("slug = %q, want %q", got.Slug, input.Slug)
	}
	if got.Timezone != input.Timezone {
		t.Fatalf("timezone = %q, want %q", got.Timezone, input.Timezone)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, now)
	}

	bySlug, err := store.GetCenterBySlug(context.Background(), "thunder-alley")
	if err != nil {
		t.Fatalf("get center by slug: %v", err)
	}
	if bySlug.ID != "center-1" {
		t.Fatalf("id = %q, want center-1", bySlug.ID)
	}
}

func TestGetCenterNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	if _, err := store.GetCenter(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing center error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.GetCenterBySlug(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing slug error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateCenterReturnsAlreadyExistsOnDuplicateSlug(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 14, 10, 0, 0, time.UTC)
	first := storage.CenterRecord{
		ID:        "center-dup-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateCenter(context.Background(), first); err != nil {
		t.Fatalf("create initial center: %v", err)
	}

	second := first
	second.ID = "center-dup-2"
	err := store.CreateCenter(context.Background(), second)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate slug error = %v, want %v", err, storage.ErrAlreadyExists)
	}

	err = store.CreateCenter(context.Background(), first)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate id error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestListCentersPaginates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 15, 0, 0, 0, time.UTC)
	for _, id := range []string{"center-1", "center-2", "center-3"} {
		if err := store.CreateCenter(context.Background(), storage.CenterRecord{
			ID:        id,
			Name:      "Center " + id,
			Slug:      "slug-" + id,
			Timezone:  "UTC",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			t.Fatalf("create center %s: %v", id, err)
		}
	}

	pageOne, err := store.ListCenters(context.Background(), storage.ListCentersQuery{PageSize: 2})
	if err != nil {
		t.Fatalf("list page one: %v", err)
	}
	if len(pageOne.Centers) != 2 {
		t.Fatalf("page one len = %d, want 2", len(pageOne.Centers))
	}
	if pageOne.NextAfterID != "center-2" {
		t.Fatalf("page one next after id = %q, want center-2", pageOne.NextAfterID)
	}

	pageTwo, err := store.ListCenters(context.Background(), storage.ListCentersQuery{
		PageSize: 2,
		AfterID:  pageOne.NextAfterID,
	})
	if err != nil {
		t.Fatalf("list page two: %v", err)
	}
	if len(pageTwo.Centers) != 1 {
		t.Fatalf("page two len = %d, want 1", len(pageTwo.Centers))
	}
	if pageTwo.Centers[0].ID != "center-3" {
		t.Fatalf("page two id = %q, want center-3", pageTwo.Centers[0].ID)
	}
	if pageTwo.NextAfterID != "" {
		t.Fatalf("page two next after id = %q, want empty", pageTwo.NextAfterID)
	}
}

func TestListCentersAppliesFilter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC)
	records := []storage.CenterRecord{
		{ID: "center-a", Name: "Alpha Lanes", Slug: "alpha", Timezone: "UTC", CreatedAt: now, UpdatedAt: now},
		{ID: "center-b", Name: "Beta Lanes", Slug: "beta", Timezone: "America/Chicago", CreatedAt: now, UpdatedAt: now},
	}
	for _, record := range records {
		if err := store.CreateCenter(context.Background(), record); err != nil {
			t.Fatalf("create center %s: %v", record.ID, err)
		}
	}

	page, err := store.ListCenters(context.Background(), storage.ListCentersQuery{
		PageSize:     10,
		FilterClause: "timezone = ?",
		FilterParams: []any{"America/Chicago"},
	})
	if err != nil {
		t.Fatalf("list filtered centers: %v", err)
	}
	if len(page.Centers) != 1 {
		t.Fatalf("filtered len = %d, want 1", len(page.Centers))
	}
	if page.Centers[0].ID != "center-b" {
		t.Fatalf("filtered id = %q, want center-b", page.Centers[0].ID)
	}
}

func TestRenameCenter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created := time.Date(2026, time.March, 2, 16, 0, 0, 0, time.UTC)
	if err := store.CreateCenter(context.Background(), storage.CenterRecord{
		ID:        "center-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "UTC",
		CreatedAt: created,
		UpdatedAt: created,
	}); err != nil {
		t.Fatalf("create center: %v", err)
	}

	renamed := created.Add(time.Hour)
	if err := store.RenameCenter(context.Background(), "center-1", "Lightning Lanes", renamed); err != nil {
		t.Fatalf("rename center: %v", err)
	}

	got, err := store.GetCenter(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get renamed center: %v", err)
	}
	if got.Name != "Lightning Lanes" {
		t.Fatalf("name = %q, want Lightning Lanes", got.Name)
	}
	if !got.UpdatedAt.Equal(renamed) {
		t.Fatalf("updated at = %v, want %v", got.UpdatedAt, renamed)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, created)
	}

	err = store.RenameCenter(context.Background(), "missing", "Name", renamed)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("rename missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestReplaceLayoutRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC)
	if err := store.CreateCenter(context.Background(), storage.CenterRecord{
		ID:        "center-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create center: %v", err)
	}

	first := []storage.LaneRangeRecord{
		{CenterID: "center-1", Position: 0, StartLane: 1, EndLane: 10, PinFallType: "FF"},
		{CenterID: "center-1", Position: 1, StartLane: 13, EndLane: 20, PinFallType: "FF"},
	}
	configured := now.Add(time.Hour)
	if err := store.ReplaceLayout(context.Background(), "center-1", first, configured); err != nil {
		t.Fatalf("replace layout: %v", err)
	}

	got, err := store.GetLayout(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get layout: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("layout len = %d, want 2", len(got))
	}
	if got[0].StartLane != 1 || got[0].EndLane != 10 || got[0].PinFallType != "FF" {
		t.Fatalf("unexpected first range %+v", got[0])
	}
	if got[1].Position != 1 || got[1].StartLane != 13 {
		t.Fatalf("unexpected second range %+v", got[1])
	}

	center, err := store.GetCenter(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get center: %v", err)
	}
	if !center.UpdatedAt.Equal(configured) {
		t.Fatalf("updated at = %v, want %v", center.UpdatedAt, configured)
	}

	second := []storage.LaneRangeRecord{
		{CenterID: "center-1", Position: 0, StartLane: 1, EndLane: 20, PinFallType: "SP"},
	}
	if err := store.ReplaceLayout(context.Background(), "center-1", second, configured.Add(time.Hour)); err != nil {
		t.Fatalf("replace layout again: %v", err)
	}

	got, err = store.GetLayout(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get replaced layout: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("replaced layout len = %d, want 1", len(got))
	}
	if got[0].EndLane != 20 || got[0].PinFallType != "SP" {
		t.Fatalf("unexpected replaced range %+v", got[0])
	}
}

func TestReplaceLayoutMissingCenter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ranges := []storage.LaneRangeRecord{
		{CenterID: "missing", Position: 0, StartLane: 1, EndLane: 10, PinFallType: "FF"},
	}
	err := store.ReplaceLayout(context.Background(), "missing", ranges, time.Now())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("replace layout error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestGetLayoutEmptyWithoutRows(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
	if err := store.CreateCenter(context.Background(), storage.CenterRecord{
		ID:        "center-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create center: %v", err)
	}

	got, err := store.GetLayout(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get layout: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("layout len = %d, want 0", len(got))
	}
}

func TestDeleteCenterCascadesLayout(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 2, 19, 0, 0, 0, time.UTC)
	if err := store.CreateCenter(context.Background(), storage.CenterRecord{
		ID:        "center-1",
		Name:      "Thunder Alley",
		Slug:      "thunder-alley",
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create center: %v", err)
	}
	ranges := []storage.LaneRangeRecord{
		{CenterID: "center-1", Position: 0, StartLane: 1, EndLane: 10, PinFallType: "FF"},
	}
	if err := store.ReplaceLayout(context.Background(), "center-1", ranges, now); err != nil {
		t.Fatalf("replace layout: %v", err)
	}

	if err := store.DeleteCenter(context.Background(), "center-1"); err != nil {
		t.Fatalf("delete center: %v", err)
	}

	if _, err := store.GetCenter(context.Background(), "center-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted center error = %v, want %v", err, storage.ErrNotFound)
	}
	got, err := store.GetLayout(context.Background(), "center-1")
	if err != nil {
		t.Fatalf("get layout after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("layout len after delete = %d, want 0", len(got))
	}

	err = store.DeleteCenter(context.Background(), "center-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "center.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
