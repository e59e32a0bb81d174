// Package repository defines the persistence interfaces the service layer
// depends on. The postgres subpackage provides the production implementation.
package repository

import (
	"context"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token *domain.RefreshToken) error
	Get(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ProductFilter narrows a catalog listing. Zero value lists everything.
type ProductFilter struct {
	// Search matches name, origin, or trace code, case-insensitively.
	Search string
	// Recent keeps only products registered in the last seven days.
	Recent bool
	// Certified keeps only products with at least one certification.
	Certified bool
	// Rated keeps only products that have received at least one rating.
	Rated bool

	Pagination pagination.Params
}

// ProductRepository persists products keyed by trace code.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	ListByProducer(ctx context.Context, producerID string, p pagination.Params) ([]domain.Product, int, error)
	Delete(ctx context.Context, code string) error
}

// RatingRepository persists ratings and computes their aggregates.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetByProductAndUser(ctx context.Context, productCode, userID string) (*domain.Rating, error)
	ListByProduct(ctx context.Context, productCode string, p pagination.Params) ([]domain.Rating, int, error)
	Summary(ctx context.Context, productCode string) (*domain.RatingSummary, error)
	SummaryByCodes(ctx context.Context, codes []string) (map[string]domain.RatingSummary, error)
	ListHistoryByUser(ctx context.Context, userID string, p pagination.Params) ([]domain.HistoryEntry, int, error)
}
