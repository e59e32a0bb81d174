package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

func newProductService(products *mockProductRepo, ratings *mockRatingRepo, users *mockUserRepo, publisher *mockPublisher, hub *mockHub) *ProductService {
	return NewProductService(products, ratings, users, publisher, hub, testLogger())
}

func producerFixture() *domain.User {
	return &domain.User{
		ID:   "producer-1",
		Name: "Fazenda Boa Vista",
		Role: domain.RoleProducer,
	}
}

func TestProductService_Register_GeneratesCode(t *testing.T) {
	products := &mockProductRepo{}
	users := &mockUserRepo{}
	publisher := &mockPublisher{}
	hub := &mockHub{}

	users.On("GetByID", mock.Anything, "producer-1").Return(producerFixture(), nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return strings.HasPrefix(p.Code, "TRC") &&
			p.ProducerName == "Fazenda Boa Vista" &&
			p.WaterUsage == domain.WaterUsageUnknown &&
			p.EnvironmentalImpact == domain.EnvironmentalUnknown &&
			p.BatchNumber == p.Code
	})).Return(nil)
	publisher.On("ProductRegistered", mock.Anything, mock.Anything).Return(nil)
	hub.On("Publish", mock.Anything, mock.MatchedBy(func(c stream.Change) bool {
		return c.Type == stream.ChangeRegistered && c.ProducerID == "producer-1"
	})).Return(nil)

	svc := newProductService(products, &mockRatingRepo{}, users, publisher, hub)
	product, err := svc.Register(context.Background(), "producer-1", RegisterProductInput{
		Name:   "Café Orgânico",
		Origin: "Sul de Minas",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(product.Code, "TRC"))
	assert.Equal(t, strings.ToUpper(product.Code), product.Code)
	products.AssertExpectations(t)
	hub.AssertExpectations(t)
}

func TestProductService_Register_ExistingCodeConflicts(t *testing.T) {
	products := &mockProductRepo{}
	users := &mockUserRepo{}

	users.On("GetByID", mock.Anything, "producer-1").Return(producerFixture(), nil)
	products.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("product", "code", "TRC12345"))

	svc := newProductService(products, &mockRatingRepo{}, users, &mockPublisher{}, &mockHub{})
	_, err := svc.Register(context.Background(), "producer-1", RegisterProductInput{
		Code:   "TRC12345",
		Name:   "Café",
		Origin: "Minas",
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestProductService_Get_AttachesSummary(t *testing.T) {
	products := &mockProductRepo{}
	ratings := &mockRatingRepo{}

	products.On("GetByCode", mock.Anything, "TRC12345").Return(&domain.Product{
		Code: "TRC12345",
		Name: "Café Orgânico",
	}, nil)
	ratings.On("Summary", mock.Anything, "TRC12345").
		Return(&domain.RatingSummary{Average: 4.0, Count: 3}, nil)

	svc := newProductService(products, ratings, &mockUserRepo{}, &mockPublisher{}, &mockHub{})
	view, err := svc.Get(context.Background(), "trc12345")
	require.NoError(t, err)
	assert.Equal(t, "TRC12345", view.Code)
	assert.Equal(t, 4.0, view.Rating.Average)
	assert.Equal(t, 3, view.Rating.Count)
}

func TestProductService_Get_NotFound(t *testing.T) {
	products := &mockProductRepo{}
	products.On("GetByCode", mock.Anything, "TRCUNKNOWN").
		Return(nil, apperrors.NotFound("product", "TRCUNKNOWN"))

	svc := newProductService(products, &mockRatingRepo{}, &mockUserRepo{}, &mockPublisher{}, &mockHub{})
	_, err := svc.Get(context.Background(), "TRCUNKNOWN")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_ListCatalog(t *testing.T) {
	products := &mockProductRepo{}
	ratings := &mockRatingRepo{}

	listed := []domain.Product{
		{Code: "TRCAAA", Name: "Café"},
		{Code: "TRCBBB", Name: "Mel"},
	}
	filter := repository.ProductFilter{Certified: true, Pagination: pagination.DefaultParams()}

	products.On("List", mock.Anything, filter).Return(listed, 2, nil)
	ratings.On("SummaryByCodes", mock.Anything, []string{"TRCAAA", "TRCBBB"}).
		Return(map[string]domain.RatingSummary{
			"TRCAAA": {Average: 4.5, Count: 2},
		}, nil)

	svc := newProductService(products, ratings, &mockUserRepo{}, &mockPublisher{}, &mockHub{})
	result, err := svc.ListCatalog(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Data, 2)
	assert.Equal(t, 4.5, result.Data[0].Rating.Average)
	// Unrated product gets the zero summary.
	assert.Zero(t, result.Data[1].Rating.Average)
	assert.Zero(t, result.Data[1].Rating.Count)
}

func TestProductService_Delete_OwnerOnly(t *testing.T) {
	products := &mockProductRepo{}
	products.On("GetByCode", mock.Anything, "TRCAAA").Return(&domain.Product{
		Code:       "TRCAAA",
		ProducerID: "producer-1",
	}, nil)

	svc := newProductService(products, &mockRatingRepo{}, &mockUserRepo{}, &mockPublisher{}, &mockHub{})
	err := svc.Delete(context.Background(), "TRCAAA", "producer-2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_Delete(t *testing.T) {
	products := &mockProductRepo{}
	publisher := &mockPublisher{}
	hub := &mockHub{}

	products.On("GetByCode", mock.Anything, "TRCAAA").Return(&domain.Product{
		Code:       "TRCAAA",
		ProducerID: "producer-1",
		CreatedAt:  time.Now(),
	}, nil)
	products.On("Delete", mock.Anything, "TRCAAA").Return(nil)
	publisher.On("ProductDeleted", mock.Anything, "TRCAAA", "producer-1").Return(nil)
	hub.On("Publish", mock.Anything, mock.MatchedBy(func(c stream.Change) bool {
		return c.Type == stream.ChangeDeleted && c.ProductCode == "TRCAAA"
	})).Return(nil)

	svc := newProductService(products, &mockRatingRepo{}, &mockUserRepo{}, publisher, hub)
	require.NoError(t, svc.Delete(context.Background(), "TRCAAA", "producer-1"))
	products.AssertExpectations(t)
	publisher.AssertExpectations(t)
	hub.AssertExpectations(t)
}
