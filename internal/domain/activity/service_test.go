package activity_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resolverStub struct {
	entities map[string]*activity.Entity
	tabs     map[string]string
}

func (r resolverStub) Entity(_ context.Context, id string) (*activity.Entity, error) {
	if e, ok := r.entities[id]; ok {
		return e, nil
	}
	return nil, activity.ErrEntityNotFound
}

func (r resolverStub) EntityForTab(ctx context.Context, tabID string) (*activity.Entity, error) {
	if id, ok := r.tabs[tabID]; ok {
		return r.Entity(ctx, id)
	}
	return nil, activity.ErrEntityNotFound
}

func library() resolverStub {
	return resolverStub{
		entities: map[string]*activity.Entity{
			"3":  {ID: "3", Key: "ART3", ItemType: "journalArticle", DisplayTitle: "Paper X", Tags: []activity.Tag{{Tag: "ml"}}},
			"7":  {ID: "7", Key: "ATT7", ItemType: "attachment", ParentID: "3", AttachmentPath: "storage:x.pdf"},
			"42": {ID: "42", Key: "ANN42", ItemType: "annotation", ParentID: "7", AnnotationType: "highlight", AnnotationText: "important", AnnotationColor: "#ffd400"},
			"5":  {ID: "5", Key: "ART5", ItemType: "book", DisplayTitle: "Paper Y"},
			"8":  {ID: "8", Key: "ATT8", ItemType: "attachment", ParentID: "5"},
			"50": {ID: "50", Key: "NOTE50", ItemType: "note", ParentID: "3", NoteText: "<p>thoughts</p>"},
		},
		tabs: map[string]string{"reader-tab-1": "7"},
	}
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newService(repo activity.Repository) *activity.Service {
	tracker := activity.NewTracker(library(), nil)
	return activity.NewService(repo, tracker, nil, activity.WithClock(func() time.Time { return fixedNow }))
}

func TestService_HighlightAnnotationAttribution(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	rec, err := svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	require.NoError(t, err)
	require.Equal(t, activity.TypeHighlightAnnotation, rec.ActivityType)
	require.Equal(t, "42", rec.ActivityID)
	require.Equal(t, "annotation", rec.ItemType)
	require.Equal(t, "3", rec.ArticleID)
	require.Equal(t, "Paper X", rec.ArticleTitle)
	require.Equal(t, "7", rec.AttachmentID)
	require.Equal(t, "42", rec.AnnotationID)
	require.Equal(t, "#ffd400", rec.AnnotationColor)
	require.Empty(t, rec.NoteID)
	require.Equal(t, fixedNow, rec.Timestamp)
	repo.AssertExpectations(t)
}

func TestService_MissingSubject(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}

	svc := newService(repo)
	_, err := svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem})
	require.ErrorIs(t, err, activity.ErrMissingSubject)
	_, err = svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{""}})
	require.ErrorIs(t, err, activity.ErrMissingSubject)
	_, err = svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"", "7"}})
	require.ErrorIs(t, err, activity.ErrMissingSubject)
	require.Equal(t, activity.Context{}, svc.Context())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestService_EveryValidNotificationYieldsOneRecord(t *testing.T) {
	ctx := context.Background()
	cases := []activity.Notification{
		{Event: "select", Kind: activity.KindTab, IDs: []string{"reader-tab-1"}},
		{Event: "open", Kind: activity.KindFile, IDs: []string{"7"}},
		{Event: "modify", Kind: activity.KindItem, IDs: []string{"42"}},
		{Event: "trash", Kind: activity.KindItem, IDs: []string{"50"}},
		{Event: "move", Kind: activity.KindItem, IDs: []string{"unknown"}},
		{Event: "close", Kind: activity.KindTab, IDs: []string{"zotero-pane"}},
	}
	for _, n := range cases {
		repo := &mocks.ActivityRepository{}
		repo.On("Insert", ctx, mock.Anything).Return(nil).Once()
		svc := newService(repo)

		rec, err := svc.Record(ctx, n)
		require.NoError(t, err)
		require.NotEmpty(t, rec.ActivityID)
		require.NotEmpty(t, rec.ActivityType)
		require.True(t, rec.ActivityType.Valid(), "type %q", rec.ActivityType)
		repo.AssertNumberOfCalls(t, "Insert", 1)
	}
}

func TestService_UnknownCombinationKeepsRawInputs(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	rec, err := svc.Record(ctx, activity.Notification{Event: "move", Kind: activity.KindItem, IDs: []string{"999"}})
	require.NoError(t, err)
	require.Equal(t, activity.TypeOther, rec.ActivityType)
	require.Equal(t, "move", rec.Event)
	require.Equal(t, "item", rec.ItemType)
}

func TestService_SingleShotContextConsumedAfterWrite(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	_, err := svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	require.NoError(t, err)

	state := svc.Context()
	require.Nil(t, state.Annotation)
	require.Nil(t, state.Note)
	require.NotNil(t, state.Article, "article context is sticky")
	require.NotNil(t, state.Attachment, "attachment context is sticky")

	rec, err := svc.Record(ctx, activity.Notification{Event: "modify", Kind: activity.KindItem, IDs: []string{"3"}})
	require.NoError(t, err)
	require.Equal(t, activity.TypeModifyItem, rec.ActivityType)
	require.Empty(t, rec.AnnotationID)
	require.Empty(t, rec.NoteID)
}

func TestService_ClassifyLeavesContextUntouched(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	_, err := svc.Record(ctx, activity.Notification{Event: "select", Kind: activity.KindTab, IDs: []string{"8"}})
	require.NoError(t, err)
	before := svc.Context()
	require.Equal(t, "5", before.Article.ID)

	rec, err := svc.Classify(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	require.NoError(t, err)
	require.Equal(t, activity.TypeHighlightAnnotation, rec.ActivityType)
	require.Equal(t, "3", rec.ArticleID)

	require.Equal(t, before, svc.Context())
	rec, err = svc.Classify(ctx, activity.Notification{Event: "close", Kind: activity.KindTab, IDs: []string{"zotero-pane"}})
	require.NoError(t, err)
	require.Empty(t, rec.ArticleID)
	require.Equal(t, before, svc.Context())
	repo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestService_FailedWriteKeepsContext(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := newService(repo)
	_, err := svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	require.ErrorIs(t, err, activity.ErrPersistence)
	require.NotNil(t, svc.Context().Annotation)
}

func TestService_StickyFocusFollowsLatestTab(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	_, err := svc.Record(ctx, activity.Notification{Event: "select", Kind: activity.KindTab, IDs: []string{"7"}})
	require.NoError(t, err)
	require.Equal(t, "3", svc.Context().Article.ID)

	rec, err := svc.Record(ctx, activity.Notification{Event: "select", Kind: activity.KindTab, IDs: []string{"8"}})
	require.NoError(t, err)
	require.Equal(t, "5", svc.Context().Article.ID)
	require.Equal(t, "8", svc.Context().Attachment.ID)
	require.Equal(t, "Paper Y", rec.ArticleTitle)
}

func TestService_TabFallbackResolution(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	rec, err := svc.Record(ctx, activity.Notification{Event: "select", Kind: activity.KindTab, IDs: []string{"reader-tab-1"}})
	require.NoError(t, err)
	require.Equal(t, activity.TypeSelectTab, rec.ActivityType)
	require.Equal(t, "attachment", rec.ItemType)
	require.Equal(t, "7", rec.AttachmentID)
	require.Equal(t, "3", rec.ArticleID)
}

func TestService_CloseMainPaneClearsAllSlots(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(errors.New("fail")).Once()
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	// A failed write leaves the annotation slot populated.
	_, err := svc.Record(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	require.Error(t, err)

	_, err = svc.Record(ctx, activity.Notification{Event: "close", Kind: activity.KindFile, IDs: []string{"zotero-pane"}})
	require.NoError(t, err)
	state := svc.Context()
	require.Nil(t, state.Article)
	require.Nil(t, state.Attachment)
	require.Nil(t, state.Annotation)
	require.Nil(t, state.Note)
}

func TestService_NoteEvents(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	for event, want := range map[string]activity.ActivityType{
		"add":    activity.TypeAddNote,
		"modify": activity.TypeModifyNote,
		"trash":  activity.TypeTrashNote,
		"delete": activity.TypeDeleteNote,
	} {
		rec, err := svc.Record(ctx, activity.Notification{Event: event, Kind: activity.KindItem, IDs: []string{"50"}})
		require.NoError(t, err)
		require.Equal(t, want, rec.ActivityType)
		require.Equal(t, "50", rec.NoteID)
		require.Equal(t, "<p>thoughts</p>", rec.NoteText)
		require.Equal(t, "3", rec.ArticleID)
		require.Empty(t, rec.AnnotationID)
	}
}

func TestService_CustomClosePolicy(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	policy := activity.DefaultClosePolicy()
	policy.CloseTypes = append(policy.CloseTypes, activity.TypeCloseTab)
	svc := activity.NewService(repo, activity.NewTracker(library(), nil), nil, activity.WithPolicy(policy))

	_, err := svc.Record(ctx, activity.Notification{Event: "open", Kind: activity.KindFile, IDs: []string{"7"}})
	require.NoError(t, err)
	require.NotNil(t, svc.Context().Article)

	_, err = svc.Record(ctx, activity.Notification{Event: "close", Kind: activity.KindTab, IDs: []string{"reader-tab-9"}})
	require.NoError(t, err)
	require.Nil(t, svc.Context().Article)
}

func TestService_ResolutionErrorsDegrade(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	resolver := &mocks.EntityResolver{}
	resolver.On("Entity", ctx, "7").Return(&activity.Entity{ID: "7", ItemType: "attachment", ParentID: "3"}, nil)
	resolver.On("Entity", ctx, "3").Return(nil, errors.New("db locked"))
	resolver.On("EntityForTab", ctx, "3").Return(nil, activity.ErrEntityNotFound)

	svc := activity.NewService(repo, activity.NewTracker(resolver, nil), nil)
	rec, err := svc.Record(ctx, activity.Notification{Event: "open", Kind: activity.KindFile, IDs: []string{"7"}})
	require.NoError(t, err)
	require.Equal(t, "7", rec.AttachmentID)
	require.Empty(t, rec.ArticleID)
	resolver.AssertExpectations(t)
}

func TestService_ExtraDataSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(nil)

	svc := newService(repo)
	rec, err := svc.Record(ctx, activity.Notification{
		Event: "add", Kind: activity.KindItem, IDs: []string{"42"},
		Extra: json.RawMessage(`{"42":{"skipSelect":true}}`),
	})
	require.NoError(t, err)

	var extra activity.Extra
	require.NoError(t, json.Unmarshal(rec.ExtraData, &extra))
	require.Equal(t, "3", extra.Article.ID)
	require.Equal(t, "42", extra.Annotation.ID)
	require.Nil(t, extra.Note)
	require.JSONEq(t, `{"42":{"skipSelect":true}}`, string(extra.Notifier))
}

func TestService_NotifySwallowsFailures(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Return(errors.New("boom"))

	svc := newService(repo)
	require.NotPanics(t, func() {
		svc.Notify(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
		svc.Notify(ctx, activity.Notification{Event: "add", Kind: activity.KindItem})
		svc.Notify(ctx, activity.Notification{Event: "add", Kind: "collection", IDs: []string{"1"}})
	})
	repo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestService_NotifyRecoversPanics(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Insert", ctx, mock.Anything).Run(func(mock.Arguments) { panic("driver bug") })

	svc := newService(repo)
	require.NotPanics(t, func() {
		svc.Notify(ctx, activity.Notification{Event: "add", Kind: activity.KindItem, IDs: []string{"42"}})
	})
}
