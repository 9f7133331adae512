package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

type vendorRepository struct {
	db     dbtx
	logger *zap.Logger
}

// NewVendorRepository creates a vendor repository
func NewVendorRepository(db dbtx, logger *zap.Logger) repository.VendorRepository {
	return &vendorRepository{db: db, logger: logger}
}

func (r *vendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `
		SELECT id, name, store_name, email, phone, city, state, created_at, updated_at
		FROM vendors
		WHERE id = $1
	`

	var v domain.Vendor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.StoreName,
		&v.Email,
		&v.Phone,
		&v.City,
		&v.State,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "vendor", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get vendor", zap.String("vendor_id", id.String()), zap.Error(err))
		return nil, err
	}

	return &v, nil
}

func (r *vendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, store_name, email, phone, city, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.Name,
		v.StoreName,
		v.Email,
		v.Phone,
		v.City,
		v.State,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create vendor", zap.Error(err))
		return err
	}

	return nil
}
