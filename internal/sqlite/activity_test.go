package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string, typ activity.ActivityType, ts time.Time) *activity.Record {
	return &activity.Record{
		ActivityID:   id,
		ActivityType: typ,
		Event:        "add",
		EntityKind:   activity.KindItem,
		ItemType:     "annotation",
		Timestamp:    ts,
	}
}

func TestActivityRepository_InsertList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	lib := int64(1)
	full := sampleRecord("42", activity.TypeHighlightAnnotation, base)
	full.LibraryID = &lib
	full.CollectionIDs = []string{"10", "11"}
	full.ArticleID = "3"
	full.ArticleKey = "ART3"
	full.ArticleTitle = "Paper X"
	full.ArticleTags = []activity.Tag{{Tag: "ml", Type: 1}}
	full.ArticleAnnotations = []string{"42"}
	full.AttachmentID = "7"
	full.AttachmentPath = "storage:x.pdf"
	full.AnnotationID = "42"
	full.AnnotationText = "important"
	full.AnnotationTags = []activity.Tag{{Tag: "todo"}}
	full.AnnotationColor = "#ffd400"
	full.ExtraData = json.RawMessage(`{"articleItem":{"id":"3"}}`)

	require.NoError(t, repo.Insert(ctx, full))
	require.NotZero(t, full.ID)
	require.NoError(t, repo.Insert(ctx, sampleRecord("tab-1", activity.TypeSelectTab, base.Add(time.Minute))))

	records, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, activity.TypeSelectTab, records[0].ActivityType)

	got := records[1]
	require.Equal(t, "42", got.ActivityID)
	require.True(t, got.Timestamp.Equal(base))
	require.Equal(t, int64(1), *got.LibraryID)
	require.Equal(t, []string{"10", "11"}, got.CollectionIDs)
	require.Equal(t, "Paper X", got.ArticleTitle)
	require.Equal(t, []activity.Tag{{Tag: "ml", Type: 1}}, got.ArticleTags)
	require.Equal(t, []string{"42"}, got.ArticleAnnotations)
	require.Equal(t, []activity.Tag{{Tag: "todo"}}, got.AnnotationTags)
	require.Equal(t, "#ffd400", got.AnnotationColor)
	require.Empty(t, got.NoteID)
	require.JSONEq(t, `{"articleItem":{"id":"3"}}`, string(got.ExtraData))

	empty := records[0]
	require.Nil(t, empty.LibraryID)
	require.Nil(t, empty.CollectionIDs)
	require.Nil(t, empty.ExtraData)
}

func TestActivityRepository_Pagination(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, sampleRecord(string(rune('a'+i)), activity.TypeModifyItem, base.Add(time.Duration(i)*time.Second))))
	}

	page, err := repo.List(ctx, activity.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "d", page[0].ActivityID)
	require.Equal(t, "c", page[1].ActivityID)

	tail, err := repo.List(ctx, activity.ListOptions{Offset: 3})
	require.NoError(t, err)
	require.Len(t, tail, 2)
	require.Equal(t, "b", tail[0].ActivityID)

	_, err = repo.List(ctx, activity.ListOptions{Limit: -1})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityRepository_ListSimple(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	now := time.Now()
	attributed := sampleRecord("1", activity.TypeModifyItem, now)
	attributed.ArticleKey = "ART"
	require.NoError(t, repo.Insert(ctx, attributed))
	require.NoError(t, repo.Insert(ctx, sampleRecord("2", activity.TypeSelectTab, now)))

	records, err := repo.ListSimple(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "1", records[0].ActivityID)
}

func TestActivityRepository_Since(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	old := sampleRecord("old", activity.TypeModifyItem, base.AddDate(-2, 0, 0))
	old.ArticleKey = "ART"
	edge := sampleRecord("edge", activity.TypeModifyItem, base)
	edge.ArticleKey = "ART"
	require.NoError(t, repo.Insert(ctx, old))
	require.NoError(t, repo.Insert(ctx, edge))
	require.NoError(t, repo.Insert(ctx, sampleRecord("tab", activity.TypeSelectTab, base.Add(time.Hour))))

	// Since is inclusive and compares instants, whatever the caller's zone.
	since := base.In(time.FixedZone("UTC+8", 8*3600))
	records, err := repo.List(ctx, activity.ListOptions{Since: since})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "tab", records[0].ActivityID)
	require.Equal(t, "edge", records[1].ActivityID)

	simple, err := repo.ListSimple(ctx, activity.ListOptions{Since: since})
	require.NoError(t, err)
	require.Len(t, simple, 1)
	require.Equal(t, "edge", simple[0].ActivityID)

	page, err := repo.ListSimple(ctx, activity.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "old", page[0].ActivityID)
}

func TestActivityRepository_MalformedColumnsReadAsEmpty(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	_, err := db.ExecContext(ctx,
		`INSERT INTO user_activities (timestamp, activity_id, activity_type, event, entity_kind, item_type,
		  collection_ids, article_tags, annotation_tags, extra_data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"2026-01-01T00:00:00.000000000Z", "9", "modify_item", "modify", "item", "item",
		"[1,", "{{", `["ok", 5]`, "not json")
	require.NoError(t, err)

	records, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Empty(t, records[0].CollectionIDs)
	require.Empty(t, records[0].ArticleTags)
	require.Equal(t, []activity.Tag{{Tag: "ok"}}, records[0].AnnotationTags)
	require.Equal(t, `"not json"`, string(records[0].ExtraData))
}

func TestActivityRepository_DistinctTagsAndColors(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	now := time.Now()
	for i, c := range []struct {
		tags  []activity.Tag
		color string
	}{
		{[]activity.Tag{{Tag: "b"}, {Tag: "a"}}, "#ff0000"},
		{[]activity.Tag{{Tag: "a"}}, "#00ff00"},
		{nil, "#ff0000"},
	} {
		rec := sampleRecord(string(rune('1'+i)), activity.TypeHighlightAnnotation, now)
		rec.AnnotationTags = c.tags
		rec.AnnotationColor = c.color
		require.NoError(t, repo.Insert(ctx, rec))
	}

	tags, err := repo.DistinctTags(ctx)
	require.NoError(t, err)
	require.Equal(t, []activity.Tag{{Tag: "b"}, {Tag: "a"}}, tags)

	colors, err := repo.DistinctColors(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"#ff0000", "#00ff00"}, colors)
}

func TestActivityRepository_RejectsHalfFormedRecords(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db, nil)

	err := repo.Insert(context.Background(), &activity.Record{ActivityType: activity.TypeAddItem})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
	err = repo.Insert(context.Background(), nil)
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestActivityRepository_Cleanup(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	require.NoError(t, repo.Cleanup())
	require.NoError(t, repo.Cleanup())

	err := repo.Insert(ctx, sampleRecord("1", activity.TypeAddItem, time.Now()))
	require.ErrorIs(t, err, repository.ErrClosed)
}

func TestActivityRepository_Purge(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, sampleRecord("a", activity.TypeSelectTab, base)))
	require.NoError(t, repo.Insert(ctx, sampleRecord("b", activity.TypeSelectTab, base.Add(time.Second))))

	n, err := repo.Purge(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	records, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, records)

	// The log stays usable after a purge.
	require.NoError(t, repo.Insert(ctx, sampleRecord("c", activity.TypeSelectTab, base)))
}
