package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

type productRepository struct {
	db     dbtx
	logger *zap.Logger
}

// NewProductRepository creates a product repository over db, which may
// be a plain connection or an open transaction
func NewProductRepository(db dbtx, logger *zap.Logger) repository.ProductRepository {
	return &productRepository{db: db, logger: logger}
}

const productColumns = `id, name, brand, description, photo_url, price, stock_quantity, vendor_id, created_at, updated_at`

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Perfume, error) {
	query := fmt.Sprintf(`SELECT %s FROM perfumes WHERE id = $1`, productColumns)
	return r.scanOne(ctx, id, query)
}

func (r *productRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Perfume, error) {
	query := fmt.Sprintf(`SELECT %s FROM perfumes WHERE id = $1 FOR UPDATE`, productColumns)
	return r.scanOne(ctx, id, query)
}

func (r *productRepository) scanOne(ctx context.Context, id uuid.UUID, query string) (*domain.Perfume, error) {
	var p domain.Perfume
	var description, photoURL sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&description,
		&photoURL,
		&p.Price,
		&p.StockQuantity,
		&p.VendorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if photoURL.Valid {
		p.PhotoURL = &photoURL.String
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, vendorID uuid.UUID, filter repository.ProductFilter) ([]*domain.Perfume, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	namePattern := "%" + filter.Name + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM perfumes WHERE vendor_id = $1 AND name ILIKE $2`
	if err := r.db.QueryRowContext(ctx, countQuery, vendorID, namePattern).Scan(&total); err != nil {
		r.logger.Error("Failed to count products", zap.Error(err))
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM perfumes
		WHERE vendor_id = $1 AND name ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, vendorID, namePattern, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*domain.Perfume, 0)
	for rows.Next() {
		var p domain.Perfume
		var description, photoURL sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Brand,
			&description,
			&photoURL,
			&p.Price,
			&p.StockQuantity,
			&p.VendorID,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}

		if description.Valid {
			p.Description = &description.String
		}
		if photoURL.Valid {
			p.PhotoURL = &photoURL.String
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Search(ctx context.Context, filter repository.SearchFilter) ([]*domain.SearchHit, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	conds := []string{"LOWER(v.city) = LOWER($1)", "LOWER(v.state) = LOWER($2)"}
	args := []interface{}{filter.City, filter.State}

	if filter.Term != "" {
		args = append(args, "%"+filter.Term+"%")
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		conds = append(conds, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		conds = append(conds, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM perfumes p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE %s
	`, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count search results", zap.Error(err))
		return nil, 0, err
	}

	var orderBy string
	switch filter.Sort {
	case repository.SortLowestPrice:
		orderBy = "p.price ASC"
	case repository.SortHighestPrice:
		orderBy = "p.price DESC"
	default:
		orderBy = "COUNT(oi.id) DESC, p.created_at DESC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.brand, p.description, p.photo_url, p.price, p.stock_quantity, p.vendor_id, p.created_at, p.updated_at,
		       v.store_name, v.city, v.state
		FROM perfumes p
		JOIN vendors v ON v.id = p.vendor_id
		LEFT JOIN order_items oi ON oi.product_id = p.id
		WHERE %s
		GROUP BY p.id, v.store_name, v.city, v.state
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	hits := make([]*domain.SearchHit, 0)
	for rows.Next() {
		var h domain.SearchHit
		var description, photoURL sql.NullString

		err := rows.Scan(
			&h.Perfume.ID,
			&h.Perfume.Name,
			&h.Perfume.Brand,
			&description,
			&photoURL,
			&h.Perfume.Price,
			&h.Perfume.StockQuantity,
			&h.Perfume.VendorID,
			&h.Perfume.CreatedAt,
			&h.Perfume.UpdatedAt,
			&h.StoreName,
			&h.City,
			&h.State,
		)
		if err != nil {
			return nil, 0, err
		}

		if description.Valid {
			h.Perfume.Description = &description.String
		}
		if photoURL.Valid {
			h.Perfume.PhotoURL = &photoURL.String
		}
		hits = append(hits, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return hits, total, nil
}

// DecrementStock subtracts quantity in a single conditional UPDATE so
// two concurrent orders can never jointly overdraw the same product.
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE perfumes
		SET stock_quantity = stock_quantity - $2, updated_at = $3
		WHERE id = $1 AND stock_quantity >= $2
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity, time.Now())
	if err != nil {
		r.logger.Error("Failed to decrement stock", zap.String("product_id", id.String()), zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// The guard rejected the update: distinguish a vanished product
	// from one that is short on stock
	var name string
	var available int
	err = r.db.QueryRowContext(ctx, `SELECT name, stock_quantity FROM perfumes WHERE id = $1`, id).
		Scan(&name, &available)
	if err == sql.ErrNoRows {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		return err
	}

	return &errors.ErrInsufficientStock{
		ProductID:   id.String(),
		ProductName: name,
		Requested:   quantity,
		Available:   available,
	}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Perfume) error {
	query := `
		INSERT INTO perfumes (id, name, brand, description, photo_url, price, stock_quantity, vendor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Brand,
		p.Description,
		p.PhotoURL,
		p.Price,
		p.StockQuantity,
		p.VendorID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}
