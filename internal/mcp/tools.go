package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/insight"
)

const (
	defaultListLimit  = 50
	defaultFacetLimit = 10
)

type tools struct {
	services Services
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, services Services, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &tools{services: services, logger: logger}

	// Queries
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activities",
		Description: "List recorded activity newest first, with a one-line description of each record",
	}, t.listActivities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_heatmap",
		Description: "Daily activity counts over the trailing year as a Monday-aligned week grid with intensity levels",
	}, t.getHeatmap)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_article_groups",
		Description: "Activity grouped by article, most recently active article first",
	}, t.getArticleGroups)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline",
		Description: "Activity grouped by calendar day, newest day first",
	}, t.getTimeline)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_facets",
		Description: "Most frequent tags or annotation colors across matching activity",
	}, t.getFacets)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_vocabulary",
		Description: "Every tag and annotation color ever recorded, for building filters",
	}, t.getVocabulary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_activity_types",
		Description: "The closed set of activity types with their display labels",
	}, t.getActivityTypes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_current_context",
		Description: "The article, attachment, annotation and note the tracker currently attributes events to",
	}, t.getCurrentContext)

	// Export
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_activities",
		Description: "Render matching activity as a memo, optionally publishing it to flomo",
	}, t.exportActivities)
}

func (t *tools) listActivities(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivitiesParams) (*sdkmcp.CallToolResult, ListActivitiesResult, error) {
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, ListActivitiesResult{}, mapError(err)
	}
	records, err := t.services.Insight.Records(ctx, f)
	if err != nil {
		return nil, ListActivitiesResult{}, mapError(err)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	out := ListActivitiesResult{Total: len(records)}
	if len(records) > limit {
		records = records[:limit]
	}
	out.Activities = toActivityViews(records, t.services.Insight.Location())
	return nil, out, nil
}

func (t *tools) getHeatmap(ctx context.Context, _ *sdkmcp.CallToolRequest, in HeatmapParams) (*sdkmcp.CallToolResult, HeatmapResult, error) {
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, HeatmapResult{}, mapError(err)
	}
	hm, err := t.services.Insight.Heatmap(ctx, f)
	if err != nil {
		return nil, HeatmapResult{}, mapError(err)
	}
	out := HeatmapResult{Start: hm.Start, End: hm.End, Total: hm.Total, Max: hm.Max}
	out.Weeks = make([][]CellView, 0, len(hm.Weeks))
	for _, week := range hm.Weeks {
		cells := make([]CellView, 0, len(week))
		for _, c := range week {
			cells = append(cells, CellView{Date: c.Date, Count: c.Count, Level: c.Level, Color: c.Color, InRange: c.InRange})
		}
		out.Weeks = append(out.Weeks, cells)
	}
	return nil, out, nil
}

func (t *tools) getArticleGroups(ctx context.Context, _ *sdkmcp.CallToolRequest, in GroupsParams) (*sdkmcp.CallToolResult, ArticleGroupsResult, error) {
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, ArticleGroupsResult{}, mapError(err)
	}
	groups, err := t.services.Insight.Groups(ctx, f)
	if err != nil {
		return nil, ArticleGroupsResult{}, mapError(err)
	}
	loc := t.services.Insight.Location()
	now := t.services.Insight.Now()
	out := ArticleGroupsResult{Groups: make([]GroupView, 0, len(groups))}
	for _, g := range groups {
		out.Groups = append(out.Groups, GroupView{
			Title:        g.Title,
			Count:        len(g.Activities),
			LastModified: g.LastModified.In(loc).Format(time.RFC3339),
			LastLabel:    insight.DayLabel(g.LastModified, now, loc),
			Activities:   toActivityViews(g.Activities, loc),
		})
	}
	return nil, out, nil
}

func (t *tools) getTimeline(ctx context.Context, _ *sdkmcp.CallToolRequest, in GroupsParams) (*sdkmcp.CallToolResult, TimelineResult, error) {
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, TimelineResult{}, mapError(err)
	}
	days, err := t.services.Insight.Days(ctx, f)
	if err != nil {
		return nil, TimelineResult{}, mapError(err)
	}
	loc := t.services.Insight.Location()
	now := t.services.Insight.Now()
	out := TimelineResult{Days: make([]DayView, 0, len(days))}
	for _, d := range days {
		label := d.Date
		if day, err := time.ParseInLocation(insight.DateLayout, d.Date, loc); err == nil {
			label = insight.DayLabel(day, now, loc)
		}
		out.Days = append(out.Days, DayView{
			Date:       d.Date,
			Label:      label,
			Count:      len(d.Activities),
			Activities: toActivityViews(d.Activities, loc),
		})
	}
	return nil, out, nil
}

func (t *tools) getFacets(ctx context.Context, _ *sdkmcp.CallToolRequest, in FacetsParams) (*sdkmcp.CallToolResult, FacetsResult, error) {
	field, err := insight.ParseFacetField(in.Field)
	if err != nil {
		return nil, FacetsResult{}, mapError(fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, FacetsResult{}, mapError(err)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultFacetLimit
	}
	facets, err := t.services.Insight.Facets(ctx, field, limit, f)
	if err != nil {
		return nil, FacetsResult{}, mapError(err)
	}
	if facets == nil {
		facets = []insight.Facet{}
	}
	return nil, FacetsResult{Field: string(field), Facets: facets}, nil
}

func (t *tools) getVocabulary(ctx context.Context, _ *sdkmcp.CallToolRequest, _ VocabularyParams) (*sdkmcp.CallToolResult, VocabularyResult, error) {
	tags, colors, err := t.services.Insight.Vocabulary(ctx)
	if err != nil {
		return nil, VocabularyResult{}, mapError(err)
	}
	out := VocabularyResult{Tags: make([]string, 0, len(tags)), Colors: colors}
	for _, tag := range tags {
		out.Tags = append(out.Tags, tag.Tag)
	}
	if out.Colors == nil {
		out.Colors = []string{}
	}
	return nil, out, nil
}

func (t *tools) getActivityTypes(_ context.Context, _ *sdkmcp.CallToolRequest, _ ActivityTypesParams) (*sdkmcp.CallToolResult, ActivityTypesResult, error) {
	out := ActivityTypesResult{Types: make([]TypeView, 0, len(activity.AllTypes))}
	for _, typ := range activity.AllTypes {
		out.Types = append(out.Types, TypeView{Type: string(typ), Label: insight.Label(typ)})
	}
	return nil, out, nil
}

func (t *tools) getCurrentContext(_ context.Context, _ *sdkmcp.CallToolRequest, _ CurrentContextParams) (*sdkmcp.CallToolResult, CurrentContextResult, error) {
	if t.services.Context == nil {
		return nil, CurrentContextResult{}, nil
	}
	c := t.services.Context.Context()
	return nil, CurrentContextResult{
		Article:    toEntityView(c.Article),
		Attachment: toEntityView(c.Attachment),
		Annotation: toEntityView(c.Annotation),
		Note:       toEntityView(c.Note),
	}, nil
}

func (t *tools) exportActivities(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportParams) (*sdkmcp.CallToolResult, ExportResult, error) {
	f, err := t.filter(in.Filter)
	if err != nil {
		return nil, ExportResult{}, mapError(err)
	}
	render := t.services.Export.Render
	if in.Publish {
		render = t.services.Export.Publish
	}
	res, err := render(ctx, f)
	if err != nil {
		c := callFrom(ctx)
		t.logger.Warn("export failed", "publish", in.Publish, "call_id", c.ID, "session_id", c.SessionID, "error", err)
		return nil, ExportResult{}, mapError(err)
	}
	return nil, ExportResult{
		Text:      res.Text,
		Records:   res.Records,
		Articles:  res.Articles,
		Published: in.Publish,
	}, nil
}

// filter converts tool arguments into an insight filter. A custom range is
// implied when from or to is given without a preset.
func (t *tools) filter(p FilterParams) (insight.Filter, error) {
	f := insight.Filter{Type: p.Type, Tags: p.Tags, Colors: p.Colors, AttributedOnly: p.AttributedOnly}
	if p.Type != "" && p.Type != insight.TypeAll && !activity.ActivityType(p.Type).Valid() {
		return insight.Filter{}, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, p.Type)
	}

	preset := p.Range
	if preset == "" && (p.From != "" || p.To != "") {
		preset = insight.RangeCustom
	}
	if preset == "" {
		return f, nil
	}

	loc := t.services.Insight.Location()
	var from, to time.Time
	var err error
	if p.From != "" {
		if from, err = time.ParseInLocation(insight.DateLayout, p.From, loc); err != nil {
			return insight.Filter{}, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
		}
	}
	if p.To != "" {
		if to, err = time.ParseInLocation(insight.DateLayout, p.To, loc); err != nil {
			return insight.Filter{}, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
		}
	}
	f.Start, f.End, err = t.services.Insight.Range(preset, from, to)
	if err != nil {
		return insight.Filter{}, err
	}
	return f, nil
}
