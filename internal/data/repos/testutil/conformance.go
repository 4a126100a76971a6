package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
)

// RunDemandRepoConformance exercises a DemandRepo implementation against the
// behavior every backend must share. newRepo must return an empty store.
func RunDemandRepoConformance(t *testing.T, newRepo func(t *testing.T) repos.DemandRepo) {
	ctx := context.Background()

	t.Run("CreateAndGetScopedToOwner", func(t *testing.T) {
		repo := newRepo(t)
		rec := NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 5)
		require.NoError(t, repo.Create(ctx, []*types.Record{rec}))

		got, err := repo.GetByID(ctx, "u1", rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "Garlic", got.ProductName)
		assert.Equal(t, "p1", got.ProductKey())
		assert.True(t, got.Date.Equal(rec.Date))

		_, err = repo.GetByID(ctx, "u2", rec.ID)
		assert.ErrorIs(t, err, repos.ErrNotFound)
		_, err = repo.GetByID(ctx, "u1", "missing")
		assert.ErrorIs(t, err, repos.ErrNotFound)
	})

	t.Run("ListFiltersSortsAndPages", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, []*types.Record{
			NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 1),
			NewRecord("u1", "p1", "Garlic", Day(2024, 1, 2), 2),
			NewRecord("u1", "p2", "Rice", Day(2024, 1, 3), 3),
			NewRecord("u1", "", "Loose", Day(2024, 1, 4), 4),
			NewRecord("u2", "p1", "Garlic", Day(2024, 1, 5), 5),
		}))

		all, total, err := repo.List(ctx, "u1", repos.ListFilter{Desc: true})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, all, 4)
		assert.Equal(t, 4.0, all[0].Quantity)
		assert.Equal(t, 1.0, all[3].Quantity)

		byProduct, total, err := repo.List(ctx, "u1", repos.ListFilter{ProductID: "p1"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, byProduct, 2)

		from, to := Day(2024, 1, 2), Day(2024, 1, 3)
		ranged, total, err := repo.List(ctx, "u1", repos.ListFilter{From: &from, To: &to, Sort: repos.SortQuantity})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, ranged, 2)
		assert.Equal(t, 2.0, ranged[0].Quantity)

		page, total, err := repo.List(ctx, "u1", repos.ListFilter{Sort: repos.SortQuantity, Offset: 1, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, page, 2)
		assert.Equal(t, 2.0, page[0].Quantity)
		assert.Equal(t, 3.0, page[1].Quantity)
	})

	t.Run("UpdateReplacesMutableFields", func(t *testing.T) {
		repo := newRepo(t)
		rec := NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 5)
		require.NoError(t, repo.Create(ctx, []*types.Record{rec}))

		changed := *rec
		changed.ProductName = "Ginger"
		changed.ProductID = nil
		changed.Quantity = 9
		changed.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Update(ctx, &changed))

		got, err := repo.GetByID(ctx, "u1", rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ginger", got.ProductName)
		assert.Nil(t, got.ProductID)
		assert.Equal(t, 9.0, got.Quantity)

		foreign := changed
		foreign.UserID = "u2"
		assert.ErrorIs(t, repo.Update(ctx, &foreign), repos.ErrNotFound)
	})

	t.Run("DeleteIsOwnerScoped", func(t *testing.T) {
		repo := newRepo(t)
		rec := NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 5)
		require.NoError(t, repo.Create(ctx, []*types.Record{rec}))

		assert.ErrorIs(t, repo.Delete(ctx, "u2", rec.ID), repos.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, "u1", rec.ID))
		assert.ErrorIs(t, repo.Delete(ctx, "u1", rec.ID), repos.ErrNotFound)
	})

	t.Run("CountAndDeleteAllHonorScope", func(t *testing.T) {
		repo := newRepo(t)
		var recs []*types.Record
		for i := 0; i < 3; i++ {
			recs = append(recs, NewRecord("u1", "p1", "Garlic", Day(2024, 1, i+1), 1))
		}
		for i := 0; i < 4; i++ {
			recs = append(recs, NewRecord("u2", "p2", "Rice", Day(2024, 2, i+1), 1))
		}
		require.NoError(t, repo.Create(ctx, recs))

		n, err := repo.Count(ctx, repos.ForUser("u1"))
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
		n, err = repo.Count(ctx, repos.AllUsers())
		require.NoError(t, err)
		assert.EqualValues(t, 7, n)

		deleted, err := repo.DeleteAll(ctx, repos.ForUser("u1"))
		require.NoError(t, err)
		assert.EqualValues(t, 3, deleted)

		deleted, err = repo.DeleteAll(ctx, repos.AllUsers())
		require.NoError(t, err)
		assert.EqualValues(t, 4, deleted)

		n, err = repo.Count(ctx, repos.AllUsers())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("AggregateProductsGroupsClassifiesAndSorts", func(t *testing.T) {
		repo := newRepo(t)
		empty := NewRecord("u1", "", "Blank id", Day(2024, 1, 9), 1)
		blank := ""
		empty.ProductID = &blank
		require.NoError(t, repo.Create(ctx, Sequenced(
			NewRecord("u1", "p2", "Rice", Day(2024, 1, 3), 1),
			NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 1),
			NewRecord("u1", "p1", "Garlic bulbs", Day(2024, 1, 7), 1),
			NewRecord("u1", "", "Unclassified", Day(2024, 1, 8), 1),
			empty,
			NewRecord("u2", "p3", "Tomato", Day(2024, 1, 1), 1),
		)))

		got, err := repo.AggregateProducts(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, types.Product{ID: "p1", Name: "Garlic", Category: types.CategorySpices, Unit: "kg"}, got[0].Product)
		assert.EqualValues(t, 2, got[0].Count)
		assert.True(t, got[0].LastUpdated.Equal(Day(2024, 1, 7)), got[0].LastUpdated)

		assert.Equal(t, types.Product{ID: "p2", Name: "Rice", Category: types.CategoryGrains, Unit: "kg"}, got[1].Product)
		assert.EqualValues(t, 1, got[1].Count)

		none, err := repo.AggregateProducts(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("AggregateProductsNameFromEarliestCreated", func(t *testing.T) {
		repo := newRepo(t)
		recs := Sequenced(
			NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 1),
			NewRecord("u1", "p1", "Garlic bulbs", Day(2024, 1, 2), 1),
		)
		require.NoError(t, repo.Create(ctx, []*types.Record{recs[1], recs[0]}))

		got, err := repo.AggregateProducts(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Garlic", got[0].Product.Name)
	})

	t.Run("ListByProductOldestFirst", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, []*types.Record{
			NewRecord("u1", "p1", "Garlic", Day(2024, 3, 1), 3),
			NewRecord("u1", "p1", "Garlic", Day(2024, 1, 1), 1),
			NewRecord("u1", "p2", "Rice", Day(2024, 2, 1), 2),
		}))
		got, err := repo.ListByProduct(ctx, "u1", "p1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1.0, got[0].Quantity)
		assert.Equal(t, 3.0, got[1].Quantity)
	})
}

// RunMetadataRepoConformance covers the marker lifecycle shared by backends.
func RunMetadataRepoConformance(t *testing.T, repo repos.MetadataRepo) {
	ctx := context.Background()

	_, err := repo.Get(ctx, types.KeyProductsUpdated)
	require.ErrorIs(t, err, repos.ErrNotFound)

	first := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Touch(ctx, types.KeyProductsUpdated, first))
	second := first.Add(time.Minute)
	require.NoError(t, repo.Touch(ctx, types.KeyProductsUpdated, second))

	got, err := repo.Get(ctx, types.KeyProductsUpdated)
	require.NoError(t, err)
	assert.Equal(t, types.KeyProductsUpdated, got.Key)
	assert.True(t, got.UpdatedAt.Equal(second), got.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, types.KeyProductsUpdated))
	require.NoError(t, repo.Delete(ctx, types.KeyProductsUpdated))
	_, err = repo.Get(ctx, types.KeyProductsUpdated)
	assert.ErrorIs(t, err, repos.ErrNotFound)
}
