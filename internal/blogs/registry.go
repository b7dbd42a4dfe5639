package blogs

import (
	"context"
	"fmt"
	"strings"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/slug"
)

// Registry owns the category collection. Category ids are slugs of the
// display name, so two names that slugify identically share one id:
// AddCategory overwrites in that case (last write wins) instead of erroring.
// That matches what the admin UI has always done and external readers key off
// those ids, so it is preserved rather than tightened.
type Registry struct {
	store docstore.Store
}

func NewRegistry(store docstore.Store) *Registry {
	return &Registry{store: store}
}

// AddCategory creates (or overwrites) the category whose id is the slug of
// name and returns that id.
func (r *Registry) AddCategory(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("category name is empty: %w", ErrValidation)
	}
	id := slug.Make(name)
	now := r.store.Now()
	op := docstore.Op{
		Kind: docstore.OpSet,
		Path: docstore.CategoriesPath,
		ID:   id,
		Data: docstore.Document{
			"name":      name,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	if err := r.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return "", storeErr("add category", err)
	}
	return id, nil
}

// FetchCategories returns all categories ordered by id. The callers don't
// depend on an order, but a stable one keeps listings (and tests)
// deterministic.
func (r *Registry) FetchCategories(ctx context.Context) ([]Category, error) {
	docs, err := r.store.Query(ctx, docstore.CategoriesPath, nil, &docstore.OrderBy{Field: "_id"}, 0)
	if err != nil {
		return nil, storeErr("fetch categories", err)
	}
	out := make([]Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, categoryFromDocument(d))
	}
	return out, nil
}

func (r *Registry) FetchCategoryByID(ctx context.Context, id string) (*Category, error) {
	doc, err := r.store.Get(ctx, docstore.CategoriesPath, id)
	if err != nil {
		return nil, storeErr("fetch category", err)
	}
	c := categoryFromDocument(doc)
	return &c, nil
}

// UpdateCategory merges patch into the category document and refreshes
// updatedAt. createdAt is never touched: a createdAt key in the patch is
// dropped.
func (r *Registry) UpdateCategory(ctx context.Context, id string, patch docstore.Document) error {
	if id == "" {
		return fmt.Errorf("category id is empty: %w", ErrValidation)
	}
	data := patch.Clone()
	if data == nil {
		data = docstore.Document{}
	}
	delete(data, "createdAt")
	delete(data, "_id")
	data["updatedAt"] = r.store.Now()
	op := docstore.Op{Kind: docstore.OpUpdate, Path: docstore.CategoriesPath, ID: id, Data: data}
	if err := r.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return storeErr("update category", err)
	}
	return nil
}

// DeleteCategory removes the category document only. Blogs that still
// reference the id keep their (now dangling) category value; the UI treats
// those as uncategorized.
func (r *Registry) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("category id is empty: %w", ErrValidation)
	}
	op := docstore.Op{Kind: docstore.OpDelete, Path: docstore.CategoriesPath, ID: id}
	if err := r.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return storeErr("delete category", err)
	}
	return nil
}
