package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Store(ctx context.Context, token *domain.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRepo) Get(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if t := args.Get(0); t != nil {
		return t.(*domain.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	args := m.Called(ctx, code)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	var products []domain.Product
	if p := args.Get(0); p != nil {
		products = p.([]domain.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *mockProductRepo) ListByProducer(ctx context.Context, producerID string, p pagination.Params) ([]domain.Product, int, error) {
	args := m.Called(ctx, producerID, p)
	var products []domain.Product
	if v := args.Get(0); v != nil {
		products = v.([]domain.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type mockRatingRepo struct{ mock.Mock }

func (m *mockRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepo) GetByProductAndUser(ctx context.Context, productCode, userID string) (*domain.Rating, error) {
	args := m.Called(ctx, productCode, userID)
	if r := args.Get(0); r != nil {
		return r.(*domain.Rating), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepo) ListByProduct(ctx context.Context, productCode string, p pagination.Params) ([]domain.Rating, int, error) {
	args := m.Called(ctx, productCode, p)
	var ratings []domain.Rating
	if v := args.Get(0); v != nil {
		ratings = v.([]domain.Rating)
	}
	return ratings, args.Int(1), args.Error(2)
}

func (m *mockRatingRepo) Summary(ctx context.Context, productCode string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, productCode)
	if s := args.Get(0); s != nil {
		return s.(*domain.RatingSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepo) SummaryByCodes(ctx context.Context, codes []string) (map[string]domain.RatingSummary, error) {
	args := m.Called(ctx, codes)
	if s := args.Get(0); s != nil {
		return s.(map[string]domain.RatingSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepo) ListHistoryByUser(ctx context.Context, userID string, p pagination.Params) ([]domain.HistoryEntry, int, error) {
	args := m.Called(ctx, userID, p)
	var entries []domain.HistoryEntry
	if v := args.Get(0); v != nil {
		entries = v.([]domain.HistoryEntry)
	}
	return entries, args.Int(1), args.Error(2)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) UserRegistered(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockPublisher) ProductRegistered(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockPublisher) ProductDeleted(ctx context.Context, productCode, producerID string) error {
	return m.Called(ctx, productCode, producerID).Error(0)
}

func (m *mockPublisher) RatingSubmitted(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

type mockHub struct{ mock.Mock }

func (m *mockHub) Publish(ctx context.Context, change stream.Change) error {
	return m.Called(ctx, change).Error(0)
}

func (m *mockHub) Subscribe(ctx context.Context, producerID string) (<-chan stream.Change, func(), error) {
	args := m.Called(ctx, producerID)
	var ch <-chan stream.Change
	if v := args.Get(0); v != nil {
		ch = v.(<-chan stream.Change)
	}
	var cancel func()
	if v := args.Get(1); v != nil {
		cancel = v.(func())
	}
	return ch, cancel, args.Error(2)
}
