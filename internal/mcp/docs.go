package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `readtrail records what a user does in their reference library (opening papers, highlighting, writing notes, tagging) and answers questions about it.

Core concepts:
- Activity record: one classified event with a type (highlight_annotation, add_note, open_file, ...) and the article, attachment, annotation or note it was attributed to.
- Article: the top-level library item a record belongs to. Records without one are grouped under "Other Activities".
- Filter: a time range plus optional type, tags (any match) and colors (any match). Empty lists do not constrain.

Suggested workflow:
1) Orient: get_heatmap for the last year, or get_timeline with range=week.
2) Drill in: get_article_groups to see which papers got attention; list_activities for raw records.
3) Facets: get_facets field=tags or field=colors; get_vocabulary lists every known value.
4) Share: export_activities renders a memo; publish=true sends it to flomo.

Docs:
- readtrail://docs/index
- readtrail://docs/activity-types
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "readtrail://docs/index",
		Name:        "docs_index",
		Title:       "readtrail docs index",
		Description: "What the tools return and how filters combine.",
		Content: `# readtrail

## Tools

- ` + "`list_activities`" + `: newest first, capped by ` + "`limit`" + ` (default 50); ` + "`total`" + ` counts every match.
- ` + "`get_heatmap`" + `: 53 Monday-first week columns. Cells outside the window have ` + "`in_range=false`" + `. Levels 0..4 at 25/50/75% of the busiest day. The window always ends today; range arguments are ignored.
- ` + "`get_article_groups`" + `: one group per article title, most recent first.
- ` + "`get_timeline`" + `: one group per calendar day, newest first, labeled Today/Yesterday where it applies.
- ` + "`get_facets`" + `: counts records per tag or color. Ties keep first-seen order.
- ` + "`export_activities`" + `: plain-text memo with one section per article and hashtags.

## Filters

- ` + "`range`" + `: today, week (7 days back), month (one calendar month back), year (365 days), custom.
- ` + "`from`" + `/` + "`to`" + `: YYYY-MM-DD; ` + "`to`" + ` covers the whole day. Giving either implies ` + "`custom`" + `.
- ` + "`type`" + `: any value from ` + "`get_activity_types`" + `, or ` + "`all`" + `.
- ` + "`tags`" + `, ` + "`colors`" + `: any match; empty means unconstrained.
`,
	},
	{
		URI:         "readtrail://docs/activity-types",
		Name:        "docs_activity_types",
		Title:       "Activity types",
		Description: "How host events map to activity types.",
		Content: `# Activity types

Base types come from the host event and entity kind: ` + "`select_tab`" + `, ` + "`load_tab`" + `, ` + "`add_tab`" + `, ` + "`close_tab`" + `, ` + "`open_file`" + `, ` + "`close_file`" + `, ` + "`add_item`" + `, ` + "`modify_item`" + `, ` + "`trash_item`" + `, ` + "`delete_item`" + `, ` + "`index_item`" + `, ` + "`refresh_item`" + `.

Annotation items refine the base type: adding one yields the subtype (` + "`highlight_annotation`" + `, ` + "`underline_annotation`" + `, ` + "`note_annotation`" + `, ` + "`text_annotation`" + `, ` + "`image_annotation`" + `, ` + "`ink_annotation`" + `, else ` + "`add_annotation`" + `); modify and delete yield ` + "`modify_annotation`" + ` and ` + "`delete_annotation`" + `.

Note items yield ` + "`add_note`" + `, ` + "`modify_note`" + `, ` + "`trash_note`" + `, ` + "`delete_note`" + `.

Event/kind pairs outside this table are stored as ` + "`other`" + ` with the raw event kept on the record.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
