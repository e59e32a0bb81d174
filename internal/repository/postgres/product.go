package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/database"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/pagination"
)

const productColumns = `code, name, origin, batch_number, harvest_date, water_usage,
	certifications, description, environmental_impact, image_url,
	producer_id, producer_name, created_at, updated_at`

// ProductRepository stores products in PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product. A duplicate trace code maps to AlreadyExists so
// concurrent registration of the same code cannot clobber an existing row.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	certs, err := json.Marshal(product.Certifications)
	if err != nil {
		return fmt.Errorf("marshal certifications: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		product.Code, product.Name, product.Origin, product.BatchNumber,
		product.HarvestDate, product.WaterUsage, certs, product.Description,
		product.EnvironmentalImpact, product.ImageURL, product.ProducerID,
		product.ProducerName, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "code", product.Code)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("producer", product.ProducerID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByCode fetches a product by its trace code.
func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE code = $1`,
		code,
	)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", code)
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

// List returns a filtered catalog page, newest first, with the unfiltered
// total for the same predicate.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := fmt.Sprintf("$%d", len(args))
		conditions = append(conditions,
			"(name ILIKE "+n+" OR origin ILIKE "+n+" OR code ILIKE "+n+")")
	}
	if filter.Recent {
		conditions = append(conditions, "created_at >= now() - interval '7 days'")
	}
	if filter.Certified {
		conditions = append(conditions, "jsonb_array_length(certifications) > 0")
	}
	if filter.Rated {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM ratings WHERE ratings.product_code = products.code)")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Pagination.PerPage, filter.Pagination.Offset)
	query := fmt.Sprintf(`
		SELECT `+productColumns+`, count(*) OVER() AS total
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	return r.queryPage(ctx, query, args...)
}

// ListByProducer returns one producer's products, newest first.
func (r *ProductRepository) ListByProducer(ctx context.Context, producerID string, p pagination.Params) ([]domain.Product, int, error) {
	query := `
		SELECT ` + productColumns + `, count(*) OVER() AS total
		FROM products
		WHERE producer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.queryPage(ctx, query, producerID, p.PerPage, p.Offset)
}

func (r *ProductRepository) queryPage(ctx context.Context, query string, args ...any) ([]domain.Product, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	var total int
	for rows.Next() {
		product, rowTotal, err := scanProductWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		total = rowTotal
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

// Delete removes a product by trace code.
func (r *ProductRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product", code)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var certs []byte
	err := row.Scan(&p.Code, &p.Name, &p.Origin, &p.BatchNumber, &p.HarvestDate,
		&p.WaterUsage, &certs, &p.Description, &p.EnvironmentalImpact,
		&p.ImageURL, &p.ProducerID, &p.ProducerName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(certs, &p.Certifications); err != nil {
		return nil, fmt.Errorf("unmarshal certifications: %w", err)
	}
	return &p, nil
}

func scanProductWithTotal(row pgx.Row) (*domain.Product, int, error) {
	var p domain.Product
	var certs []byte
	var total int
	err := row.Scan(&p.Code, &p.Name, &p.Origin, &p.BatchNumber, &p.HarvestDate,
		&p.WaterUsage, &certs, &p.Description, &p.EnvironmentalImpact,
		&p.ImageURL, &p.ProducerID, &p.ProducerName, &p.CreatedAt, &p.UpdatedAt, &total)
	if err != nil {
		return nil, 0, err
	}
	if err := json.Unmarshal(certs, &p.Certifications); err != nil {
		return nil, 0, fmt.Errorf("unmarshal certifications: %w", err)
	}
	return &p, total, nil
}
