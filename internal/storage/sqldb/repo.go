package sqldb

import (
	"context"
	"database/sql"

	"ai_feedback/internal/domain"
)

type Repo struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Repo { return &Repo{db: db, dialect: dialect} }

// InitSchema creates the reviews table and index when absent.
func (r *Repo) InitSchema() error {
	stmts := schemaSQLite
	if r.dialect == DialectMySQL {
		stmts = schemaMySQL
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.Rating,
		rv.Text,
		rv.AISummary,
		rv.AIRecommendations,
		boolToInt(rv.FeedbackGenerated),
		rv.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) UpdateFeedback(ctx context.Context, id, summary, recommendations string) error {
	res, err := r.db.ExecContext(ctx, updateFeedbackSQL, summary, recommendations, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, getReviewSQL, id)
	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return r.queryReviews(ctx, listReviewsSQL)
}

func (r *Repo) ListNeedingFeedback(ctx context.Context, limit int) ([]domain.Review, error) {
	return r.queryReviews(ctx, listNeedingFeedbackSQL, limit)
}

func (r *Repo) CountByRating(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, countByRatingSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		out[rating] = count
	}
	return out, rows.Err()
}

func (r *Repo) queryReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rv domain.Review
	var generated int
	var created sql.NullTime
	if err := row.Scan(
		&rv.ID,
		&rv.Rating,
		&rv.Text,
		&rv.AISummary,
		&rv.AIRecommendations,
		&generated,
		&created,
	); err != nil {
		return domain.Review{}, err
	}
	rv.FeedbackGenerated = generated != 0
	if created.Valid {
		rv.CreatedAt = created.Time.UTC()
	}
	return rv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
