package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/event"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

// RatingService handles rating submission and aggregation.
type RatingService struct {
	ratings   repository.RatingRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	publisher event.Publisher
	log       *slog.Logger
}

// NewRatingService creates a rating service.
func NewRatingService(
	ratings repository.RatingRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	publisher event.Publisher,
	log *slog.Logger,
) *RatingService {
	return &RatingService{
		ratings:   ratings,
		products:  products,
		users:     users,
		publisher: publisher,
		log:       log,
	}
}

// SubmitRatingInput is the payload for submitting a rating.
type SubmitRatingInput struct {
	ProductCode string `json:"productCode" validate:"required,min=6,max=40"`
	Score       int    `json:"score" validate:"required,gte=1,lte=5"`
	Comment     string `json:"comment" validate:"max=1000"`
}

// Submit records a user's rating for a product. The score is validated
// before anything is written, and the unique constraint backs up the
// duplicate check under concurrency.
func (s *RatingService) Submit(ctx context.Context, userID string, in SubmitRatingInput) (*domain.Rating, error) {
	if !domain.IsValidScore(in.Score) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"score must be between %d and %d", domain.MinScore, domain.MaxScore))
	}

	code := strings.ToUpper(strings.TrimSpace(in.ProductCode))
	product, err := s.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = s.ratings.GetByProductAndUser(ctx, product.Code, user.ID)
	if err == nil {
		return nil, apperrors.Conflict("ALREADY_RATED", "user has already rated this product")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	rating := &domain.Rating{
		ID:          uuid.NewString(),
		ProductCode: product.Code,
		UserID:      user.ID,
		UserName:    user.Name,
		Score:       in.Score,
		Comment:     strings.TrimSpace(in.Comment),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.publisher.RatingSubmitted(ctx, rating); err != nil {
		logger.WithContext(ctx, s.log).Warn("publish rating.submitted failed", "error", err)
	}

	return rating, nil
}

// ListForProduct returns a product's ratings, newest first, along with the
// current summary.
func (s *RatingService) ListForProduct(ctx context.Context, productCode string, p pagination.Params) (*pagination.Result[domain.Rating], *domain.RatingSummary, error) {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	if _, err := s.products.GetByCode(ctx, code); err != nil {
		return nil, nil, err
	}

	ratings, total, err := s.ratings.ListByProduct(ctx, code, p)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.ratings.Summary(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	result := pagination.NewResult(ratings, total, p)
	return &result, summary, nil
}

// Summary returns the mean score and count for a product.
func (s *RatingService) Summary(ctx context.Context, productCode string) (*domain.RatingSummary, error) {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	if _, err := s.products.GetByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.ratings.Summary(ctx, code)
}

// History returns the calling user's rated products, newest first.
func (s *RatingService) History(ctx context.Context, userID string, p pagination.Params) (*pagination.Result[domain.HistoryEntry], error) {
	entries, total, err := s.ratings.ListHistoryByUser(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(entries, total, p)
	return &result, nil
}
