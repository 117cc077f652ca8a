package store

import (
	"context"
	"fmt"
	"log/slog"

	"loungebot/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoungeRepository reads lounges, memberships, and prompt adjustments.
type LoungeRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewLoungeRepository creates a lounge repository.
func NewLoungeRepository(db *pgxpool.Pool, logger *slog.Logger) *LoungeRepository {
	return &LoungeRepository{db: db, logger: logger}
}

var loungeColumns = []string{
	"id", "name", "family", "theme_description", "relevancy_threshold",
	"keep_rules", "filter_rules", "borderline_rules",
}

// GetLounge loads one lounge with its rule set.
func (r *LoungeRepository) GetLounge(ctx context.Context, loungeID string) (types.Lounge, error) {
	query, args, err := psql.
		Select(loungeColumns...).
		From("lounges").
		Where(sq.Eq{"id": loungeID}).
		ToSql()
	if err != nil {
		return types.Lounge{}, fmt.Errorf("build lounge query: %w", err)
	}

	lounge, err := scanLounge(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return types.Lounge{}, fmt.Errorf("get lounge %s: %w", loungeID, err)
	}
	return lounge, nil
}

// ListCreatorLounges returns every lounge the creator belongs to.
// Content inherits lounge eligibility through these memberships.
func (r *LoungeRepository) ListCreatorLounges(ctx context.Context, creatorID string) ([]types.Lounge, error) {
	cols := make([]string, len(loungeColumns))
	for i, c := range loungeColumns {
		cols[i] = "l." + c
	}

	query, args, err := psql.
		Select(cols...).
		From("lounges l").
		Join("creator_lounges cl ON cl.lounge_id = l.id").
		Where(sq.Eq{"cl.creator_id": creatorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build membership query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lounges for creator %s: %w", creatorID, err)
	}
	defer rows.Close()

	var lounges []types.Lounge
	for rows.Next() {
		lounge, err := scanLounge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lounge: %w", err)
		}
		lounges = append(lounges, lounge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lounges: %w", err)
	}
	return lounges, nil
}

// ListActiveAdjustments returns the approved, active prompt adjustments
// for a lounge, in approval order.
func (r *LoungeRepository) ListActiveAdjustments(ctx context.Context, loungeID string) ([]types.PromptAdjustment, error) {
	query, args, err := psql.
		Select("id", "lounge_id", "adjustment_type", "text").
		From("prompt_adjustments").
		Where(sq.Eq{"lounge_id": loungeID, "approved": true, "active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build adjustments query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments for lounge %s: %w", loungeID, err)
	}
	defer rows.Close()

	var adjustments []types.PromptAdjustment
	for rows.Next() {
		adj := types.PromptAdjustment{Approved: true, Active: true}
		if err := rows.Scan(&adj.ID, &adj.LoungeID, &adj.AdjustmentType, &adj.Text); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adjustments: %w", err)
	}
	return adjustments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLounge(row rowScanner) (types.Lounge, error) {
	var (
		lounge    types.Lounge
		family    *string
		theme     *string
		threshold *int
	)
	err := row.Scan(&lounge.ID, &lounge.Name, &family, &theme, &threshold,
		&lounge.Rules.Keep, &lounge.Rules.Filter, &lounge.Rules.Borderline)
	if err != nil {
		return types.Lounge{}, err
	}
	if family != nil {
		lounge.Family = *family
	}
	if theme != nil {
		lounge.ThemeDescription = *theme
	}
	lounge.RelevancyThreshold = threshold
	return lounge, nil
}
