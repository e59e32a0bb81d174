package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/database"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

// RatingRepository stores ratings in PostgreSQL. The one-rating-per-user-per-
// product rule is a unique constraint, so concurrent submissions cannot slip
// past the service-level check.
type RatingRepository struct {
	db database.DBTX
}

// NewRatingRepository creates a rating repository.
func NewRatingRepository(db database.DBTX) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating. A duplicate (product, user) pair maps to an
// ALREADY_RATED conflict.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ratings (id, product_code, user_id, user_name, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rating.ID, rating.ProductCode, rating.UserID, rating.UserName,
		rating.Score, rating.Comment, rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("ALREADY_RATED", "user has already rated this product")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", rating.ProductCode)
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// GetByProductAndUser fetches the rating a user gave a product, if any.
func (r *RatingRepository) GetByProductAndUser(ctx context.Context, productCode, userID string) (*domain.Rating, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, product_code, user_id, user_name, score, comment, created_at
		FROM ratings
		WHERE product_code = $1 AND user_id = $2`,
		productCode, userID,
	)

	var rating domain.Rating
	err := row.Scan(&rating.ID, &rating.ProductCode, &rating.UserID,
		&rating.UserName, &rating.Score, &rating.Comment, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("select rating: %w", err)
	}
	return &rating, nil
}

// ListByProduct returns a product's ratings, newest first.
func (r *RatingRepository) ListByProduct(ctx context.Context, productCode string, p pagination.Params) ([]domain.Rating, int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_code, user_id, user_name, score, comment, created_at,
			count(*) OVER() AS total
		FROM ratings
		WHERE product_code = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		productCode, p.PerPage, p.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	var total int
	for rows.Next() {
		var rating domain.Rating
		err := rows.Scan(&rating.ID, &rating.ProductCode, &rating.UserID,
			&rating.UserName, &rating.Score, &rating.Comment, &rating.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, total, nil
}

// Summary returns the mean score and rating count for a product. A product
// with no ratings yields average 0 and count 0.
func (r *RatingRepository) Summary(ctx context.Context, productCode string) (*domain.RatingSummary, error) {
	row := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings
		WHERE product_code = $1`,
		productCode,
	)

	var summary domain.RatingSummary
	if err := row.Scan(&summary.Average, &summary.Count); err != nil {
		return nil, fmt.Errorf("select rating summary: %w", err)
	}
	return &summary, nil
}

// SummaryByCodes returns summaries for many products in one query. Codes
// without ratings are absent from the result map.
func (r *RatingRepository) SummaryByCodes(ctx context.Context, codes []string) (map[string]domain.RatingSummary, error) {
	summaries := make(map[string]domain.RatingSummary, len(codes))
	if len(codes) == 0 {
		return summaries, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_code, AVG(score), COUNT(*)
		FROM ratings
		WHERE product_code = ANY($1)
		GROUP BY product_code`,
		codes,
	)
	if err != nil {
		return nil, fmt.Errorf("select rating summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var summary domain.RatingSummary
		if err := rows.Scan(&code, &summary.Average, &summary.Count); err != nil {
			return nil, fmt.Errorf("scan rating summary: %w", err)
		}
		summaries[code] = summary
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating summaries: %w", err)
	}
	return summaries, nil
}

// ListHistoryByUser returns the user's ratings joined with the rated
// products, newest first.
func (r *RatingRepository) ListHistoryByUser(ctx context.Context, userID string, p pagination.Params) ([]domain.HistoryEntry, int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.product_code, r.user_id, r.user_name, r.score, r.comment, r.created_at,
			p.name, p.origin, p.image_url, p.producer_name,
			count(*) OVER() AS total
		FROM ratings r
		JOIN products p ON p.code = r.product_code
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, p.PerPage, p.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	var total int
	for rows.Next() {
		var entry domain.HistoryEntry
		err := rows.Scan(&entry.Rating.ID, &entry.Rating.ProductCode, &entry.Rating.UserID,
			&entry.Rating.UserName, &entry.Rating.Score, &entry.Rating.Comment, &entry.Rating.CreatedAt,
			&entry.ProductName, &entry.Origin, &entry.ImageURL, &entry.ProducerName, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate history: %w", err)
	}
	return entries, total, nil
}
