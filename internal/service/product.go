package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/event"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

// ProductService handles the product registry and catalog.
type ProductService struct {
	products  repository.ProductRepository
	ratings   repository.RatingRepository
	users     repository.UserRepository
	publisher event.Publisher
	hub       stream.Hub
	log       *slog.Logger
}

// NewProductService creates a product service.
func NewProductService(
	products repository.ProductRepository,
	ratings repository.RatingRepository,
	users repository.UserRepository,
	publisher event.Publisher,
	hub stream.Hub,
	log *slog.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		ratings:   ratings,
		users:     users,
		publisher: publisher,
		hub:       hub,
		log:       log,
	}
}

// RegisterProductInput is the payload for registering a product. An empty
// Code requests a freshly generated trace code.
type RegisterProductInput struct {
	Code                string   `json:"code" validate:"omitempty,min=6,max=40"`
	Name                string   `json:"name" validate:"required,min=2,max=200"`
	Origin              string   `json:"origin" validate:"required,min=2,max=200"`
	BatchNumber         string   `json:"batchNumber" validate:"max=100"`
	HarvestDate         string   `json:"harvestDate" validate:"max=40"`
	WaterUsage          string   `json:"waterUsage" validate:"max=200"`
	Certifications      []string `json:"certifications" validate:"max=20,dive,min=1,max=100"`
	Description         string   `json:"description" validate:"max=2000"`
	EnvironmentalImpact string   `json:"environmentalImpact" validate:"max=2000"`
	ImageURL            string   `json:"imageUrl" validate:"omitempty,url"`
}

// Register creates a product owned by the calling producer. Registering an
// existing trace code fails with a conflict instead of overwriting.
func (s *ProductService) Register(ctx context.Context, producerID string, in RegisterProductInput) (*domain.Product, error) {
	producer, err := s.users.GetByID(ctx, producerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		code = domain.GenerateTraceCode(now)
	}

	product := &domain.Product{
		Code:                code,
		Name:                strings.TrimSpace(in.Name),
		Origin:              strings.TrimSpace(in.Origin),
		BatchNumber:         strings.TrimSpace(in.BatchNumber),
		HarvestDate:         strings.TrimSpace(in.HarvestDate),
		WaterUsage:          strings.TrimSpace(in.WaterUsage),
		Certifications:      in.Certifications,
		Description:         strings.TrimSpace(in.Description),
		EnvironmentalImpact: strings.TrimSpace(in.EnvironmentalImpact),
		ImageURL:            strings.TrimSpace(in.ImageURL),
		ProducerID:          producer.ID,
		ProducerName:        producer.Name,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	product.ApplyDefaults()

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	reqLog := logger.WithContext(ctx, s.log)
	if err := s.publisher.ProductRegistered(ctx, product); err != nil {
		reqLog.Warn("publish product.registered failed", "error", err)
	}
	err = s.hub.Publish(ctx, stream.Change{
		Type:        stream.ChangeRegistered,
		ProductCode: product.Code,
		ProducerID:  product.ProducerID,
		OccurredAt:  now,
	})
	if err != nil {
		reqLog.Warn("publish stock change failed", "error", err)
	}

	return product, nil
}

// ProductView is a product together with its rating summary.
type ProductView struct {
	domain.Product
	Rating domain.RatingSummary `json:"rating"`
}

// Get looks a product up by trace code and attaches its rating summary.
// Summaries are computed per request, never cached.
func (s *ProductService) Get(ctx context.Context, code string) (*ProductView, error) {
	product, err := s.products.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	summary, err := s.ratings.Summary(ctx, product.Code)
	if err != nil {
		return nil, err
	}

	return &ProductView{Product: *product, Rating: *summary}, nil
}

// ListCatalog returns a filtered catalog page with rating summaries attached
// in a single aggregate query.
func (s *ProductService) ListCatalog(ctx context.Context, filter repository.ProductFilter) (*pagination.Result[ProductView], error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := s.attachSummaries(ctx, products)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(views, total, filter.Pagination)
	return &result, nil
}

// ListByProducer returns a producer's own products with rating summaries.
func (s *ProductService) ListByProducer(ctx context.Context, producerID string, p pagination.Params) (*pagination.Result[ProductView], error) {
	products, total, err := s.products.ListByProducer(ctx, producerID, p)
	if err != nil {
		return nil, err
	}

	views, err := s.attachSummaries(ctx, products)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(views, total, p)
	return &result, nil
}

// Delete removes a product. Only its owning producer may delete it.
func (s *ProductService) Delete(ctx context.Context, code, requesterID string) error {
	product, err := s.products.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	if product.ProducerID != requesterID {
		return apperrors.Forbidden("only the owning producer can delete this product")
	}

	if err := s.products.Delete(ctx, product.Code); err != nil {
		return err
	}

	reqLog := logger.WithContext(ctx, s.log)
	if err := s.publisher.ProductDeleted(ctx, product.Code, product.ProducerID); err != nil {
		reqLog.Warn("publish product.deleted failed", "error", err)
	}
	err = s.hub.Publish(ctx, stream.Change{
		Type:        stream.ChangeDeleted,
		ProductCode: product.Code,
		ProducerID:  product.ProducerID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		reqLog.Warn("publish stock change failed", "error", err)
	}

	return nil
}

func (s *ProductService) attachSummaries(ctx context.Context, products []domain.Product) ([]ProductView, error) {
	codes := make([]string, len(products))
	for i, p := range products {
		codes[i] = p.Code
	}

	summaries, err := s.ratings.SummaryByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, Rating: summaries[p.Code]}
	}
	return views, nil
}
