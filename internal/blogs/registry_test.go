package blogs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

func TestAddCategory_SlugifiesName(t *testing.T) {
	r := NewRegistry(testStore(t))
	ctx := context.Background()

	id, err := r.AddCategory(ctx, "Tech News")
	require.NoError(t, err)
	require.Equal(t, "tech-news", id)

	c, err := r.FetchCategoryByID(ctx, "tech-news")
	require.NoError(t, err)
	require.Equal(t, "Tech News", c.Name)
	require.False(t, c.CreatedAt.IsZero())
}

func TestAddCategory_EmptyNameRejected(t *testing.T) {
	r := NewRegistry(testStore(t))
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := r.AddCategory(context.Background(), name)
		require.ErrorIs(t, err, ErrValidation, "name %q", name)
	}
}

func TestAddCategory_SameSlugOverwrites(t *testing.T) {
	r := NewRegistry(testStore(t))
	ctx := context.Background()

	id1, err := r.AddCategory(ctx, "Tech News")
	require.NoError(t, err)
	id2, err := r.AddCategory(ctx, "tech news!")
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	all, err := r.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	// last write wins
	require.Equal(t, "tech news!", all[0].Name)
}

func TestFetchCategories_StableOrder(t *testing.T) {
	r := NewRegistry(testStore(t))
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Alpha", "Middle"} {
		_, err := r.AddCategory(ctx, name)
		require.NoError(t, err)
	}
	all, err := r.FetchCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "alpha", all[0].ID)
	require.Equal(t, "middle", all[1].ID)
	require.Equal(t, "zebra", all[2].ID)
}

func TestFetchCategoryByID_Missing(t *testing.T) {
	r := NewRegistry(testStore(t))
	_, err := r.FetchCategoryByID(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCategory_MergesAndRefreshesUpdatedAt(t *testing.T) {
	m := testStore(t)
	r := NewRegistry(m)
	ctx := context.Background()

	_, err := r.AddCategory(ctx, "Tech News")
	require.NoError(t, err)
	before, err := r.FetchCategoryByID(ctx, "tech-news")
	require.NoError(t, err)

	err = r.UpdateCategory(ctx, "tech-news", docstore.Document{
		"seoTitle":  "Tech news and insights",
		"createdAt": time.Unix(0, 0), // must be ignored
	})
	require.NoError(t, err)

	after, err := r.FetchCategoryByID(ctx, "tech-news")
	require.NoError(t, err)
	require.Equal(t, "Tech News", after.Name)
	require.Equal(t, "Tech news and insights", after.SEOTitle)
	require.Equal(t, before.CreatedAt, after.CreatedAt)
	require.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateCategory_Missing(t *testing.T) {
	r := NewRegistry(testStore(t))
	err := r.UpdateCategory(context.Background(), "nope", docstore.Document{"name": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory_DoesNotTouchBlogs(t *testing.T) {
	m := testStore(t)
	r := NewRegistry(m)
	c := NewCoordinator(m)
	ctx := context.Background()

	_, err := r.AddCategory(ctx, "Tech News")
	require.NoError(t, err)
	blogID, err := c.AddBlog(ctx, "tech-news", sampleInput("Hello"))
	require.NoError(t, err)

	require.NoError(t, r.DeleteCategory(ctx, "tech-news"))

	_, err = r.FetchCategoryByID(ctx, "tech-news")
	require.ErrorIs(t, err, ErrNotFound)

	// blog keeps its dangling category reference; no cascade
	b, err := c.FetchBlog(ctx, blogID)
	require.NoError(t, err)
	require.Equal(t, "tech-news", b.Category)
}
