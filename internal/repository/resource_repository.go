package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/roombook-api/internal/models"
)

// ResourceRepository provides persistence for bookable resources and groups.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository creates a new resource repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// List returns every resource ordered for display.
func (r *ResourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	query := "SELECT id, name, sort_order, available, group_id, created_at, updated_at FROM resources ORDER BY sort_order ASC, name ASC"
	var resources []models.Resource
	if err := r.db.SelectContext(ctx, &resources, query); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// FindByID fetches a single resource.
func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	query := "SELECT id, name, sort_order, available, group_id, created_at, updated_at FROM resources WHERE id = $1"
	var resource models.Resource
	if err := r.db.GetContext(ctx, &resource, query, id); err != nil {
		return nil, err
	}
	return &resource, nil
}

// ListGroups returns all resource groups.
func (r *ResourceRepository) ListGroups(ctx context.Context) ([]models.ResourceGroup, error) {
	query := "SELECT id, name, display_mode, dimension FROM resource_groups ORDER BY name ASC"
	var groups []models.ResourceGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list resource groups: %w", err)
	}
	return groups, nil
}

// Create inserts a new resource.
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	query := `INSERT INTO resources (id, name, sort_order, available, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		resource.ID, resource.Name, resource.SortOrder, resource.Available,
		resource.GroupID, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Update rewrites a stored resource.
func (r *ResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	resource.UpdatedAt = time.Now().UTC()

	query := `UPDATE resources SET name = $2, sort_order = $3, available = $4, group_id = $5, updated_at = $6 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		resource.ID, resource.Name, resource.SortOrder, resource.Available,
		resource.GroupID, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}
