package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/domain/insight"
)

// DefaultSourceTag closes every exported memo.
const DefaultSourceTag = "readtrail"

// FormatOptions controls memo rendering.
type FormatOptions struct {
	SourceTag string
	Location  *time.Location
}

// Format renders grouped activity as one plain-text memo: a section per
// article, one line per activity, the article's hashtags, and a trailing
// source tag.
func Format(groups []insight.ArticleGroup, opts FormatOptions) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "📚 %s (%d)\n", g.Title, len(g.Activities))
		var tags []string
		seen := map[string]bool{}
		for _, rec := range g.Activities {
			line := rec
			line.ArticleTitle = ""
			line.ArticleTags = nil
			line.AnnotationTags = nil
			fmt.Fprintf(&b, "%s %s %s\n", Emoji(rec.ActivityType), rec.Timestamp.In(loc).Format("2006-01-02 15:04"), insight.Describe(line))
			for _, tag := range append(append([]activity.Tag{}, rec.ArticleTags...), rec.AnnotationTags...) {
				if h := Hashtag(tag.Tag); h != "" && !seen[h] {
					seen[h] = true
					tags = append(tags, h)
				}
			}
		}
		if len(tags) > 0 {
			b.WriteString(strings.Join(tags, " "))
			b.WriteString("\n")
		}
	}
	if h := Hashtag(opts.SourceTag); h != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h)
	}
	return b.String()
}

// Emoji returns the line marker for an activity type.
func Emoji(t activity.ActivityType) string {
	switch {
	case t.IsAnnotation():
		return "🖍"
	case t.IsNote():
		return "📝"
	}
	switch t {
	case activity.TypeOpenFile, activity.TypeCloseFile:
		return "📖"
	case activity.TypeSelectTab, activity.TypeLoadTab, activity.TypeAddTab, activity.TypeCloseTab:
		return "🗂"
	}
	return "•"
}

// Hashtag turns a tag into a single-token hashtag.
func Hashtag(tag string) string {
	tag = strings.Join(strings.Fields(strings.TrimPrefix(strings.TrimSpace(tag), "#")), "_")
	if tag == "" {
		return ""
	}
	return "#" + tag
}
