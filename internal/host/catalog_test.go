package host

import (
	"context"
	"sync"
	"testing"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestCatalog_EntityAndTab(t *testing.T) {
	c := NewCatalog(nil)
	ctx := context.Background()

	require.NoError(t, c.Upsert(
		activity.Entity{ID: "3", ItemType: "journalArticle", DisplayTitle: "Paper"},
		activity.Entity{ID: "7", ItemType: "attachment", ParentID: "3"},
	))
	require.NoError(t, c.SetTab("reader-1", "7"))

	e, err := c.Entity(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, "Paper", e.DisplayTitle)

	e.DisplayTitle = "mutated"
	again, err := c.Entity(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, "Paper", again.DisplayTitle)

	tab, err := c.EntityForTab(ctx, "reader-1")
	require.NoError(t, err)
	require.Equal(t, "7", tab.ID)

	c.RemoveTab("reader-1")
	_, err = c.EntityForTab(ctx, "reader-1")
	require.ErrorIs(t, err, activity.ErrEntityNotFound)

	c.Remove("3")
	_, err = c.Entity(ctx, "3")
	require.ErrorIs(t, err, activity.ErrEntityNotFound)

	entities, tabs := c.Size()
	require.Equal(t, 1, entities)
	require.Equal(t, 0, tabs)
}

func TestCatalog_RejectsMissingIDs(t *testing.T) {
	c := NewCatalog(nil)
	require.ErrorIs(t, c.Upsert(activity.Entity{ID: "1"}, activity.Entity{}), repository.ErrInvalidInput)
	n, _ := c.Size()
	require.Zero(t, n)
	require.ErrorIs(t, c.SetTab("", "1"), repository.ErrInvalidInput)
}

func TestCatalog_TracksThroughTracker(t *testing.T) {
	c := NewCatalog(nil)
	require.NoError(t, c.Upsert(activity.Entity{ID: "7", ItemType: "attachment"}))
	require.NoError(t, c.SetTab("reader-1", "7"))

	tracker := activity.NewTracker(c, nil)
	e := tracker.Resolve(context.Background(), "reader-1")
	require.NotNil(t, e)
	require.Equal(t, "7", e.ID)
	require.Nil(t, tracker.Resolve(context.Background(), "missing"))
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	c := NewCatalog(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = c.Upsert(activity.Entity{ID: id})
			_ = c.SetTab("tab-"+id, id)
			_, _ = c.EntityForTab(context.Background(), "tab-"+id)
		}(i)
	}
	wg.Wait()
	entities, tabs := c.Size()
	require.Equal(t, 8, entities)
	require.Equal(t, 8, tabs)
}
