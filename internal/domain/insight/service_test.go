package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(store Store) *Service {
	return NewService(store, nil,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return now }),
		WithDays(30),
	)
}

func TestService_HeatmapIgnoresFilterDates(t *testing.T) {
	store := new(mocks.ActivityRepository)
	windowStart := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	store.On("List", mock.Anything, activity.ListOptions{Since: windowStart}).Return([]activity.Record{
		rec(activity.TypeAddNote, now),
		rec(activity.TypeSelectTab, now),
		rec(activity.TypeAddNote, now.AddDate(0, 0, -40)),
	}, nil)

	svc := newTestService(store)
	hm, err := svc.Heatmap(context.Background(), Filter{Type: "add_note", Start: now})
	require.NoError(t, err)
	require.Equal(t, 1, hm.Total)
	require.Equal(t, "2026-09-20", hm.Start)
	require.Equal(t, "2026-10-19", hm.End)
	store.AssertExpectations(t)
}

func TestService_GroupsAndFacets(t *testing.T) {
	a := rec(activity.TypeHighlightAnnotation, now)
	a.ArticleTitle = "A"
	a.AnnotationColor = "#ffd400"
	b := rec(activity.TypeHighlightAnnotation, now.Add(-time.Hour))
	b.AnnotationColor = "#ffd400"

	store := new(mocks.ActivityRepository)
	store.On("List", mock.Anything, activity.ListOptions{}).Return([]activity.Record{a, b}, nil)

	svc := newTestService(store)
	groups, err := svc.Groups(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "A", groups[0].Title)

	facets, err := svc.Facets(context.Background(), FacetColors, 10, Filter{})
	require.NoError(t, err)
	require.Equal(t, []Facet{{Value: "#ffd400", Count: 2}}, facets)
}

func TestService_RecordsPushesBoundsToStore(t *testing.T) {
	start := now.AddDate(0, 0, -7)
	attributed := rec(activity.TypeModifyItem, now)
	attributed.ArticleKey = "ART"
	stray := rec(activity.TypeModifyItem, now)

	tests := []struct {
		name   string
		filter Filter
		method string
		opts   activity.ListOptions
		want   int
	}{
		{name: "everything", filter: Filter{}, method: "List", want: 2},
		{name: "since start", filter: Filter{Start: start}, method: "List", opts: activity.ListOptions{Since: start}, want: 2},
		{name: "attributed", filter: Filter{AttributedOnly: true}, method: "ListSimple", want: 1},
		{name: "attributed since start", filter: Filter{Start: start, AttributedOnly: true}, method: "ListSimple", opts: activity.ListOptions{Since: start}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.ActivityRepository)
			store.On(tt.method, mock.Anything, tt.opts).Return([]activity.Record{attributed, stray}, nil)

			got, err := newTestService(store).Records(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, tt.want)
			store.AssertExpectations(t)
		})
	}
}

func TestService_StoreErrors(t *testing.T) {
	boom := errors.New("boom")
	store := new(mocks.ActivityRepository)
	store.On("List", mock.Anything, mock.Anything).Return(nil, boom)
	store.On("DistinctTags", mock.Anything).Return(nil, boom)

	svc := newTestService(store)
	_, err := svc.Records(context.Background(), Filter{})
	require.ErrorIs(t, err, boom)
	_, _, err = svc.Vocabulary(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestService_Vocabulary(t *testing.T) {
	store := new(mocks.ActivityRepository)
	store.On("DistinctTags", mock.Anything).Return([]activity.Tag{{Tag: "todo"}}, nil)
	store.On("DistinctColors", mock.Anything).Return([]string{"#ffd400"}, nil)

	tags, colors, err := newTestService(store).Vocabulary(context.Background())
	require.NoError(t, err)
	require.Equal(t, []activity.Tag{{Tag: "todo"}}, tags)
	require.Equal(t, []string{"#ffd400"}, colors)
}
