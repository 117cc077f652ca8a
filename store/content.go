package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loungebot/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepository reads and updates content items.
type ContentRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewContentRepository creates a content repository.
func NewContentRepository(db *pgxpool.Pool, logger *slog.Logger) *ContentRepository {
	return &ContentRepository{db: db, logger: logger}
}

// FetchBatch returns up to limit content items that have not been
// relevancy-checked yet, oldest first.
func (r *ContentRepository) FetchBatch(ctx context.Context, limit int) ([]types.ContentItem, error) {
	query, args, err := psql.
		Select("id", "platform_content_id", "title", "description", "url",
			"creator_id", "creator_name", "platform",
			"reference_type", "referenced_text", "referenced_author").
		From("content").
		Where(sq.Eq{"relevancy_checked_at": nil}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fetch batch query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch content batch: %w", err)
	}
	defer rows.Close()

	var items []types.ContentItem
	for rows.Next() {
		var (
			item             types.ContentItem
			referenceType    *string
			referencedText   *string
			referencedAuthor *string
		)
		if err := rows.Scan(&item.ID, &item.PlatformContentID, &item.Title,
			&item.Description, &item.URL, &item.CreatorID, &item.CreatorName,
			&item.Platform, &referenceType, &referencedText, &referencedAuthor); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}

		if referenceType != nil {
			item.ReferenceType = *referenceType
			ref := types.ReferencedContent{}
			if referencedText != nil {
				ref.Text = *referencedText
			}
			if referencedAuthor != nil {
				ref.AuthorName = *referencedAuthor
			}
			item.ReferencedContent = &ref
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content batch: %w", err)
	}

	r.logger.Info("fetched content batch", "count", len(items), "limit", limit)
	return items, nil
}

// UpdateRelevancy persists the merged score, reason, and checked
// timestamp for one item.
func (r *ContentRepository) UpdateRelevancy(ctx context.Context, contentID string, score int, reason string, checkedAt time.Time) error {
	query, args, err := psql.
		Update("content").
		Set("relevancy_score", score).
		Set("relevancy_reason", reason).
		Set("relevancy_checked_at", checkedAt).
		Where(sq.Eq{"id": contentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build relevancy update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update relevancy for %s: %w", contentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content %s not found", contentID)
	}
	return nil
}
