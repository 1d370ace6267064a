package product

import (
	"context"
	"fmt"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

// CategoryChecker reports whether a category with the given name exists.
type CategoryChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       Repository
	categories CategoryChecker
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithCategoryCheck makes Create and Update reject category names that do
// not exist in the category collection.
func (s *Service) WithCategoryCheck(c CategoryChecker) *Service {
	s.categories = c
	return s
}

// Page is a product page plus its pagination metadata.
type Page struct {
	Items      []Product
	Pagination query.Pagination
}

func (s *Service) List(ctx context.Context, q query.Params) (Page, error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Pagination: query.NewPagination(total, q)}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return Product{}, ErrInvalidID
	}
	return s.repo.GetByID(ctx, oid)
}

func (s *Service) Create(ctx context.Context, p Product) (database.InsertResult, error) {
	if err := s.checkCategory(ctx, p.Category); err != nil {
		return database.InsertResult{}, err
	}
	return s.repo.Create(ctx, p)
}

// Update applies a partial update. The _id key is always dropped so a
// product can never be re-keyed.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (database.UpdateResult, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return database.UpdateResult{}, ErrInvalidID
	}
	set := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return database.UpdateResult{}, ErrEmptyUpdate
	}
	if name, ok := set["category"].(string); ok {
		if err := s.checkCategory(ctx, name); err != nil {
			return database.UpdateResult{}, err
		}
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

// ClearCart sets addedToCart=false on the whole catalog. It is global, not
// scoped to a shopper; see the cart package for per-session carts.
func (s *Service) ClearCart(ctx context.Context) (int64, error) {
	return s.repo.ClearCart(ctx)
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) error {
	return s.repo.Reset(ctx, products)
}

func (s *Service) checkCategory(ctx context.Context, name string) error {
	if s.categories == nil || name == "" {
		return nil
	}
	ok, err := s.categories.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return nil
}
