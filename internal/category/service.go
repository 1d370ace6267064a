package category

import (
	"context"
	"fmt"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
)

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns all categories with totalProducts filled in, including zero.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, c Category) (database.InsertResult, error) {
	return s.repo.Create(ctx, c)
}

// Update sets the submitted fields. _id and the derived totalProducts are
// never written.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (database.UpdateResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	set := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "_id" || k == "totalProducts" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return database.UpdateResult{}, ErrEmptyUpdate
	}
	if _, err := FromFields(set); err != nil {
		return database.UpdateResult{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	res, err := s.repo.Update(ctx, oid, set)
	if err != nil {
		return database.UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		return database.UpdateResult{}, ErrNotFound
	}
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) (database.DeleteResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.DeleteResult{}, ErrInvalidID
	}
	res, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return database.DeleteResult{}, err
	}
	if res.DeletedCount == 0 {
		return database.DeleteResult{}, ErrNotFound
	}
	return res, nil
}

// Exists lets the product service validate category names on write.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.Exists(ctx, name)
}

func (s *Service) Reset(ctx context.Context, categories []Category) error {
	return s.repo.Reset(ctx, categories)
}
