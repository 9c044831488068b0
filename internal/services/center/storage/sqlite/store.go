// Package sqlite provides a SQLite-backed center storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/laneworks/laneworks/internal/platform/storage/sqlitemigrate"
	"github.com/laneworks/laneworks/internal/services/center/storage"
	"github.com/laneworks/laneworks/internal/services/center/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists center state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite center store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// OpenReadOnly opens an existing SQLite center store without applying
// migrations. Writes through this handle fail at the driver level.
func OpenReadOnly(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?mode=ro&_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateCenter inserts one center record.
func (s *Store) CreateCenter(ctx context.Context, center storage.CenterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	centerID := strings.TrimSpace(center.ID)
	name := strings.TrimSpace(center.Name)
	slug := strings.TrimSpace(center.Slug)
	timezone := strings.TrimSpace(center.Timezone)
	if centerID == "" {
		return fmt.Errorf("center id is required")
	}
	if name == "" {
		return fmt.Errorf("center name is required")
	}
	if slug == "" {
		return fmt.Errorf("center slug is required")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	createdAt := center.CreatedAt.UTC()
	updatedAt := center.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO centers (
		   id,
		   name,
		   slug,
		   timezone,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		centerID,
		name,
		slug,
		timezone,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isCenterUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create center: %w", err)
	}
	return nil
}

// GetCenter returns one center by ID.
func (s *Store) GetCenter(ctx context.Context, centerID string) (storage.CenterRecord, error) {
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return storage.CenterRecord{}, fmt.Errorf("center id is required")
	}
	return s.getCenterWhere(ctx, "id = ?", centerID)
}

// GetCenterBySlug returns one center by its unique slug.
func (s *Store) GetCenterBySlug(ctx context.Context, slug string) (storage.CenterRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return storage.CenterRecord{}, fmt.Errorf("center slug is required")
	}
	return s.getCenterWhere(ctx, "slug = ?", slug)
}

func (s *Store) getCenterWhere(ctx context.Context, where string, arg any) (storage.CenterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CenterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CenterRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, slug, timezone, created_at, updated_at
		   FROM centers
		  WHERE `+where,
		arg,
	)

	var center storage.CenterRecord
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&center.ID,
		&center.Name,
		&center.Slug,
		&center.Timezone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CenterRecord{}, storage.ErrNotFound
		}
		return storage.CenterRecord{}, fmt.Errorf("get center: %w", err)
	}

	center.CreatedAt = fromMillis(createdAt)
	center.UpdatedAt = fromMillis(updatedAt)
	return center, nil
}

// ListCenters returns one page of center records in ID keyset order.
func (s *Store) ListCenters(ctx context.Context, query storage.ListCentersQuery) (storage.CenterPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.CenterPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CenterPage{}, fmt.Errorf("storage is not configured")
	}
	if query.PageSize <= 0 {
		return storage.CenterPage{}, fmt.Errorf("page size must be greater than zero")
	}

	sqlQuery := `SELECT id, name, slug, timezone, created_at, updated_at
	   FROM centers`
	var conds []string
	var params []any
	if strings.TrimSpace(query.FilterClause) != "" {
		conds = append(conds, query.FilterClause)
		params = append(params, query.FilterParams...)
	}
	if afterID := strings.TrimSpace(query.AfterID); afterID != "" {
		conds = append(conds, "id > ?")
		params = append(params, afterID)
	}
	if len(conds) > 0 {
		sqlQuery += "\n	  WHERE " + strings.Join(conds, " AND ")
	}
	sqlQuery += "\n	  ORDER BY id ASC\n	  LIMIT ?"
	params = append(params, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, sqlQuery, params...)
	if err != nil {
		return storage.CenterPage{}, fmt.Errorf("list centers: %w", err)
	}
	defer rows.Close()

	page := storage.CenterPage{
		Centers: make([]storage.CenterRecord, 0, query.PageSize),
	}
	for rows.Next() {
		var center storage.CenterRecord
		var createdAt int64
		var updatedAt int64
		if err := rows.Scan(
			&center.ID,
			&center.Name,
			&center.Slug,
			&center.Timezone,
			&createdAt,
			&updatedAt,
		); err != nil {
			return storage.CenterPage{}, fmt.Errorf("list centers: %w", err)
		}
		center.CreatedAt = fromMillis(createdAt)
		center.UpdatedAt = fromMillis(updatedAt)
		page.Centers = append(page.Centers, center)
	}
	if err := rows.Err(); err != nil {
		return storage.CenterPage{}, fmt.Errorf("list centers: %w", err)
	}
	if len(page.Centers) > query.PageSize {
		page.NextAfterID = page.Centers[query.PageSize-1].ID
		page.Centers = page.Centers[:query.PageSize]
	}

	return page, nil
}

// RenameCenter updates a center name and bumps its updated timestamp.
func (s *Store) RenameCenter(ctx context.Context, centerID, name string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	name = strings.TrimSpace(name)
	if centerID == "" {
		return fmt.Errorf("center id is required")
	}
	if name == "" {
		return fmt.Errorf("center name is required")
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE centers SET name = ?, updated_at = ? WHERE id = ?`,
		name,
		toMillis(updatedAt),
		centerID,
	)
	if err != nil {
		return fmt.Errorf("rename center: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename center: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCenter removes a center and its lane ranges.
func (s *Store) DeleteCenter(ctx context.Context, centerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return fmt.Errorf("center id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM centers WHERE id = ?`, centerID)
	if err != nil {
		return fmt.Errorf("delete center: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete center: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceLayout swaps a center's lane ranges in one transaction.
func (s *Store) ReplaceLayout(ctx context.Context, centerID string, ranges []storage.LaneRangeRecord, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return fmt.Errorf("center id is required")
	}
	if len(ranges) == 0 {
		return fmt.Errorf("lane ranges are required")
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin layout transaction: %w", err)
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE centers SET updated_at = ? WHERE id = ?`,
		toMillis(updatedAt),
		centerID,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("replace layout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("replace layout: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lane_ranges WHERE center_id = ?`, centerID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("replace layout: %w", err)
	}

	for position, laneRange := range ranges {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO lane_ranges (
			   center_id,
			   position,
			   start_lane,
			   end_lane,
			   pin_fall_type
			 ) VALUES (?, ?, ?, ?, ?)`,
			centerID,
			position,
			laneRange.StartLane,
			laneRange.EndLane,
			laneRange.PinFallType,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("replace layout: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit layout transaction: %w", err)
	}
	return nil
}

// GetLayout returns a center's lane ranges in stored position order.
// An empty result means the center has no layout configured yet.
func (s *Store) GetLayout(ctx context.Context, centerID string) ([]storage.LaneRangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	centerID = strings.TrimSpace(centerID)
	if centerID == "" {
		return nil, fmt.Errorf("center id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT center_id, position, start_lane, end_lane, pin_fall_type
		   FROM lane_ranges
		  WHERE center_id = ?
		  ORDER BY position ASC`,
		centerID,
	)
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}
	defer rows.Close()

	var ranges []storage.LaneRangeRecord
	for rows.Next() {
		var laneRange storage.LaneRangeRecord
		if err := rows.Scan(
			&laneRange.CenterID,
			&laneRange.Position,
			&laneRange.StartLane,
			&laneRange.EndLane,
			&laneRange.PinFallType,
		); err != nil {
			return nil, fmt.Errorf("get layout: %w", err)
		}
		ranges = append(ranges, laneRange)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}
	return ranges, nil
}

func isCenterUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "centers.")
}

var _ storage.CenterStore = (*Store)(nil)
