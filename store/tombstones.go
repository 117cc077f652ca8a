package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loungebot/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TombstoneRepository manages soft-deletion records. The natural key
// (platform_content_id, platform, creator_id) is unique in the table,
// so concurrent or repeated runs cannot double-tombstone.
type TombstoneRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewTombstoneRepository creates a tombstone repository.
func NewTombstoneRepository(db *pgxpool.Pool, logger *slog.Logger) *TombstoneRepository {
	return &TombstoneRepository{db: db, logger: logger}
}

// TombstoneExists reports whether a tombstone already covers the key.
func (r *TombstoneRepository) TombstoneExists(ctx context.Context, platformContentID, platform, creatorID string) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("deleted_content").
		Where(sq.Eq{
			"platform_content_id": platformContentID,
			"platform":            platform,
			"creator_id":          creatorID,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build tombstone lookup: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("tombstone lookup: %w", err)
	}
	return true, nil
}

// InsertTombstone records the deletion. ON CONFLICT DO NOTHING keeps
// the insert idempotent even when two runs race past the existence
// check; the first deletion reason wins.
func (r *TombstoneRepository) InsertTombstone(ctx context.Context, rec types.DeletedContentRecord) error {
	query, args, err := psql.
		Insert("deleted_content").
		Columns("platform_content_id", "platform", "creator_id",
			"deleted_at", "deletion_reason", "title", "url").
		Values(rec.PlatformContentID, rec.Platform, rec.CreatorID,
			rec.DeletedAt, rec.DeletionReason, rec.Title, rec.URL).
		Suffix("ON CONFLICT (platform_content_id, platform, creator_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build tombstone insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tombstone for %s/%s: %w", rec.Platform, rec.PlatformContentID, err)
	}
	return nil
}
