package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/auth"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/event"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/service"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage/memory"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/stream"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/health"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

// Function-field stubs keep each test to the handful of calls it cares
// about; unset methods fail loudly.

type fakeUserRepo struct {
	create     func(ctx context.Context, user *domain.User) error
	getByID    func(ctx context.Context, id string) (*domain.User, error)
	getByEmail func(ctx context.Context, email string) (*domain.User, error)
	update     func(ctx context.Context, user *domain.User) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	return f.create(ctx, user)
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return f.getByID(ctx, id)
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.getByEmail(ctx, email)
}
func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	return f.update(ctx, user)
}

type fakeTokenRepo struct{}

func (fakeTokenRepo) Store(context.Context, *domain.RefreshToken) error { return nil }
func (fakeTokenRepo) Get(context.Context, string) (*domain.RefreshToken, error) {
	return nil, apperrors.ErrNotFound
}
func (fakeTokenRepo) Revoke(context.Context, string) error           { return nil }
func (fakeTokenRepo) RevokeAllForUser(context.Context, string) error { return nil }

type fakeProductRepo struct {
	create         func(ctx context.Context, product *domain.Product) error
	getByCode      func(ctx context.Context, code string) (*domain.Product, error)
	list           func(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error)
	listByProducer func(ctx context.Context, producerID string, p pagination.Params) ([]domain.Product, int, error)
	delete         func(ctx context.Context, code string) error
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return f.create(ctx, product)
}
func (f *fakeProductRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return f.getByCode(ctx, code)
}
func (f *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return f.list(ctx, filter)
}
func (f *fakeProductRepo) ListByProducer(ctx context.Context, producerID string, p pagination.Params) ([]domain.Product, int, error) {
	return f.listByProducer(ctx, producerID, p)
}
func (f *fakeProductRepo) Delete(ctx context.Context, code string) error {
	return f.delete(ctx, code)
}

type fakeRatingRepo struct {
	create              func(ctx context.Context, rating *domain.Rating) error
	getByProductAndUser func(ctx context.Context, productCode, userID string) (*domain.Rating, error)
	listByProduct       func(ctx context.Context, productCode string, p pagination.Params) ([]domain.Rating, int, error)
	summary             func(ctx context.Context, productCode string) (*domain.RatingSummary, error)
	summaryByCodes      func(ctx context.Context, codes []string) (map[string]domain.RatingSummary, error)
	listHistoryByUser   func(ctx context.Context, userID string, p pagination.Params) ([]domain.HistoryEntry, int, error)
}

func (f *fakeRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	return f.create(ctx, rating)
}
func (f *fakeRatingRepo) GetByProductAndUser(ctx context.Context, productCode, userID string) (*domain.Rating, error) {
	return f.getByProductAndUser(ctx, productCode, userID)
}
func (f *fakeRatingRepo) ListByProduct(ctx context.Context, productCode string, p pagination.Params) ([]domain.Rating, int, error) {
	return f.listByProduct(ctx, productCode, p)
}
func (f *fakeRatingRepo) Summary(ctx context.Context, productCode string) (*domain.RatingSummary, error) {
	return f.summary(ctx, productCode)
}
func (f *fakeRatingRepo) SummaryByCodes(ctx context.Context, codes []string) (map[string]domain.RatingSummary, error) {
	return f.summaryByCodes(ctx, codes)
}
func (f *fakeRatingRepo) ListHistoryByUser(ctx context.Context, userID string, p pagination.Params) ([]domain.HistoryEntry, int, error) {
	return f.listHistoryByUser(ctx, userID, p)
}

type testEnv struct {
	users    *fakeUserRepo
	products *fakeProductRepo
	ratings  *fakeRatingRepo
	hub      *stream.MemoryHub
	jwt      *auth.JWTManager
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwt := auth.NewJWTManager("test-secret-with-enough-entropy-1234", "agrotrace", 15*time.Minute, 7*24*time.Hour)

	env := &testEnv{
		users:    &fakeUserRepo{},
		products: &fakeProductRepo{},
		ratings:  &fakeRatingRepo{},
		hub:      stream.NewMemoryHub(),
		jwt:      jwt,
	}

	userSvc := service.NewUserService(env.users, fakeTokenRepo{}, jwt, event.NoopPublisher{}, log)
	productSvc := service.NewProductService(env.products, env.ratings, env.users, event.NoopPublisher{}, env.hub, log)
	ratingSvc := service.NewRatingService(env.ratings, env.products, env.users, event.NoopPublisher{}, log)
	mediaSvc := service.NewMediaService(memory.New("http://localhost/media"), log)

	registry := prometheus.NewRegistry()
	env.router = NewRouter(RouterDeps{
		Users:          NewUserHandler(userSvc, ratingSvc, log),
		Products:       NewProductHandler(productSvc, log),
		Ratings:        NewRatingHandler(ratingSvc, log),
		Media:          NewMediaHandler(mediaSvc, log),
		Stock:          NewStockHandler(env.hub, log),
		TokenValidator: auth.MiddlewareValidator{Manager: jwt},
		Health:         health.NewHandler(),
		Registry:       registry,
		Logger:         log,
		CORSOrigins:    []string{"*"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	return env
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(userID, userID+"@example.com", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}
