package mcp

import (
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/insight"
)

// FilterParams selects activity for every query tool.
type FilterParams struct {
	Range  string   `json:"range,omitempty" jsonschema:"time range preset: today, week, month, year or custom; omit for all time"`
	From   string   `json:"from,omitempty" jsonschema:"first day of a custom range, YYYY-MM-DD"`
	To     string   `json:"to,omitempty" jsonschema:"last day of a custom range, YYYY-MM-DD"`
	Type   string   `json:"type,omitempty" jsonschema:"activity type, or all"`
	Tags   []string `json:"tags,omitempty" jsonschema:"match records carrying any of these tags"`
	Colors []string `json:"colors,omitempty" jsonschema:"match annotations with any of these colors"`

	AttributedOnly bool `json:"attributed_only,omitempty" jsonschema:"only records tied to an article"`
}

type ListActivitiesParams struct {
	Filter FilterParams `json:"filter,omitempty"`
	Limit  int          `json:"limit,omitempty" jsonschema:"maximum records to return, default 50"`
}

type ListActivitiesResult struct {
	Total      int            `json:"total"`
	Activities []ActivityView `json:"activities"`
}

type HeatmapParams struct {
	Filter FilterParams `json:"filter,omitempty"`
}

type HeatmapResult struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Total int          `json:"total"`
	Max   int          `json:"max"`
	Weeks [][]CellView `json:"weeks"`
}

type CellView struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Level   int    `json:"level"`
	Color   string `json:"color"`
	InRange bool   `json:"in_range"`
}

type GroupsParams struct {
	Filter FilterParams `json:"filter,omitempty"`
}

type ArticleGroupsResult struct {
	Groups []GroupView `json:"groups"`
}

type GroupView struct {
	Title        string         `json:"title"`
	Count        int            `json:"count"`
	LastModified string         `json:"last_modified"`
	LastLabel    string         `json:"last_label"`
	Activities   []ActivityView `json:"activities"`
}

type TimelineResult struct {
	Days []DayView `json:"days"`
}

type DayView struct {
	Date       string         `json:"date"`
	Label      string         `json:"label"`
	Count      int            `json:"count"`
	Activities []ActivityView `json:"activities"`
}

type FacetsParams struct {
	Field  string       `json:"field" jsonschema:"tags or colors"`
	Limit  int          `json:"limit,omitempty" jsonschema:"number of values to return, default 10"`
	Filter FilterParams `json:"filter,omitempty"`
}

type FacetsResult struct {
	Field  string          `json:"field"`
	Facets []insight.Facet `json:"facets"`
}

type VocabularyParams struct{}

type VocabularyResult struct {
	Tags   []string `json:"tags"`
	Colors []string `json:"colors"`
}

type ActivityTypesParams struct{}

type ActivityTypesResult struct {
	Types []TypeView `json:"types"`
}

type TypeView struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type CurrentContextParams struct{}

type CurrentContextResult struct {
	Article    *EntityView `json:"article,omitempty"`
	Attachment *EntityView `json:"attachment,omitempty"`
	Annotation *EntityView `json:"annotation,omitempty"`
	Note       *EntityView `json:"note,omitempty"`
}

type EntityView struct {
	ID       string `json:"id"`
	Key      string `json:"key,omitempty"`
	ItemType string `json:"item_type,omitempty"`
	Title    string `json:"title,omitempty"`
}

type ExportParams struct {
	Filter  FilterParams `json:"filter,omitempty"`
	Publish bool         `json:"publish,omitempty" jsonschema:"send the memo to flomo instead of only rendering it"`
}

type ExportResult struct {
	Text      string `json:"text"`
	Records   int    `json:"records"`
	Articles  int    `json:"articles"`
	Published bool   `json:"published"`
}

// ActivityView is the wire form of one activity record.
type ActivityView struct {
	ID              int64    `json:"id"`
	ActivityID      string   `json:"activity_id"`
	ActivityType    string   `json:"activity_type"`
	Event           string   `json:"event"`
	EntityKind      string   `json:"entity_kind"`
	ItemType        string   `json:"item_type"`
	Timestamp       string   `json:"timestamp"`
	Description     string   `json:"description"`
	ArticleKey      string   `json:"article_key,omitempty"`
	ArticleTitle    string   `json:"article_title,omitempty"`
	AnnotationText  string   `json:"annotation_text,omitempty"`
	AnnotationColor string   `json:"annotation_color,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

func toActivityView(rec activity.Record, loc *time.Location) ActivityView {
	view := ActivityView{
		ID:              rec.ID,
		ActivityID:      rec.ActivityID,
		ActivityType:    string(rec.ActivityType),
		Event:           rec.Event,
		EntityKind:      string(rec.EntityKind),
		ItemType:        rec.ItemType,
		Timestamp:       rec.Timestamp.In(loc).Format(time.RFC3339),
		Description:     insight.Describe(rec),
		ArticleKey:      rec.ArticleKey,
		ArticleTitle:    rec.ArticleTitle,
		AnnotationText:  rec.AnnotationText,
		AnnotationColor: rec.AnnotationColor,
	}
	for _, tag := range rec.AnnotationTags {
		view.Tags = append(view.Tags, tag.Tag)
	}
	for _, tag := range rec.ArticleTags {
		view.Tags = append(view.Tags, tag.Tag)
	}
	return view
}

func toActivityViews(records []activity.Record, loc *time.Location) []ActivityView {
	views := make([]ActivityView, 0, len(records))
	for _, rec := range records {
		views = append(views, toActivityView(rec, loc))
	}
	return views
}

func toEntityView(e *activity.Entity) *EntityView {
	if e == nil {
		return nil
	}
	return &EntityView{ID: e.ID, Key: e.Key, ItemType: e.ItemType, Title: e.DisplayTitle}
}
