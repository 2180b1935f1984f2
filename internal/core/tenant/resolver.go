package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRecordID is the scope used when a request carries no tenant
const DefaultRecordID int64 = 0

// ErrUnknownTenant is returned when the tenant id in the context has no record
var ErrUnknownTenant = errors.New("unknown tenant")

type contextKey struct{}

// WithTenantID returns a copy of ctx carrying the tenant id
func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// TenantIDFromContext returns the tenant id stored by WithTenantID
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Resolver maps the tenant id of a request to the record id that scopes analytics rows
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the tenant record id for ctx, or DefaultRecordID when ctx has no tenant
func (r *Resolver) Resolve(ctx context.Context) (int64, error) {
	id, ok := TenantIDFromContext(ctx)
	if !ok {
		return DefaultRecordID, nil
	}

	var recordIDs []int64
	err := r.db.WithContext(ctx).Raw(`SELECT record_id FROM tenants WHERE id = ?`, id.String()).Scan(&recordIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve tenant %s: %w", id, err)
	}
	if len(recordIDs) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTenant, id)
	}

	return recordIDs[0], nil
}
