package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
)

type resourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
	FindByID(ctx context.Context, id string) (*models.Resource, error)
	ListGroups(ctx context.Context) ([]models.ResourceGroup, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
}

// CreateResourceRequest describes payload for registering a resource.
type CreateResourceRequest struct {
	Name      string  `json:"name" validate:"required"`
	SortOrder int     `json:"sort_order"`
	Available bool    `json:"available"`
	GroupID   *string `json:"group_id"`
}

// UpdateResourceRequest modifies an existing resource.
type UpdateResourceRequest struct {
	Name      string  `json:"name" validate:"required"`
	SortOrder int     `json:"sort_order"`
	Available bool    `json:"available"`
	GroupID   *string `json:"group_id"`
}

// ResourceService serves the bookable resource catalog.
type ResourceService struct {
	repo      resourceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResourceService instantiates ResourceService.
func NewResourceService(repo resourceRepository, validate *validator.Validate, logger *zap.Logger) *ResourceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{repo: repo, validator: validate, logger: logger}
}

// List returns resources in display order, each decorated with a display name
// that folds in its group label when the group opts in.
func (s *ResourceService) List(ctx context.Context) ([]models.ResourceView, error) {
	resources, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}

	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resource groups")
	}
	groupsByID := make(map[string]models.ResourceGroup, len(groups))
	for _, g := range groups {
		groupsByID[g.ID] = g
	}

	views := make([]models.ResourceView, 0, len(resources))
	for _, r := range resources {
		view := models.ResourceView{Resource: r, DisplayName: r.Name}
		if r.GroupID != nil {
			if group, ok := groupsByID[*r.GroupID]; ok && group.DisplayMode == models.GroupDisplayPrefixed {
				view.DisplayName = fmt.Sprintf("%s / %s", group.Name, r.Name)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns a resource by id.
func (s *ResourceService) Get(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get resource")
	}
	return resource, nil
}

// Groups lists resource groups.
func (s *ResourceService) Groups(ctx context.Context) ([]models.ResourceGroup, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resource groups")
	}
	return groups, nil
}

// Create registers a new resource.
func (s *ResourceService) Create(ctx context.Context, req CreateResourceRequest) (*models.Resource, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}
	resource := &models.Resource{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		Available: req.Available,
		GroupID:   req.GroupID,
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create resource")
	}
	return resource, nil
}

// Update rewrites resource attributes.
func (s *ResourceService) Update(ctx context.Context, id string, req UpdateResourceRequest) (*models.Resource, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	resource.Name = req.Name
	resource.SortOrder = req.SortOrder
	resource.Available = req.Available
	resource.GroupID = req.GroupID
	if err := s.repo.Update(ctx, resource); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update resource")
	}
	return resource, nil
}
