package insight

import (
	"strings"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// SnippetLength caps quoted text in descriptions, in runes.
const SnippetLength = 50

var actionLabels = map[activity.ActivityType]string{
	activity.TypeHighlightAnnotation: "Highlighted text",
	activity.TypeUnderlineAnnotation: "Underlined text",
	activity.TypeNoteAnnotation:      "Added sticky note",
	activity.TypeTextAnnotation:      "Added text annotation",
	activity.TypeImageAnnotation:     "Added image annotation",
	activity.TypeInkAnnotation:       "Drew ink annotation",
	activity.TypeAddAnnotation:       "Added annotation",
	activity.TypeModifyAnnotation:    "Modified annotation",
	activity.TypeDeleteAnnotation:    "Deleted annotation",
	activity.TypeAddNote:             "Added note",
	activity.TypeModifyNote:          "Modified note",
	activity.TypeTrashNote:           "Moved note to trash",
	activity.TypeDeleteNote:          "Deleted note",
	activity.TypeAddItem:             "Added item",
	activity.TypeModifyItem:          "Modified item",
	activity.TypeTrashItem:           "Moved to trash",
	activity.TypeDeleteItem:          "Deleted item",
	activity.TypeIndexItem:           "Indexed item",
	activity.TypeRefresh:             "Refreshed item",
	activity.TypeOpenFile:            "Opened file",
	activity.TypeCloseFile:           "Closed file",
	activity.TypeSelectTab:           "Selected tab",
	activity.TypeLoadTab:             "Loaded tab",
	activity.TypeAddTab:              "Added tab",
	activity.TypeCloseTab:            "Closed tab",
}

// Label returns the human action name of t.
func Label(t activity.ActivityType) string {
	if label, ok := actionLabels[t]; ok {
		return label
	}
	if t == "" {
		return "Activity"
	}
	return string(t)
}

// Describe renders a one-line summary of rec. It never fails.
func Describe(rec activity.Record) string {
	var b strings.Builder
	b.WriteString(Label(rec.ActivityType))
	if rec.ArticleTitle != "" {
		b.WriteString(`: "`)
		b.WriteString(rec.ArticleTitle)
		b.WriteString(`"`)
	}

	if rec.ActivityType.IsAnnotation() {
		if text := strings.TrimSpace(rec.AnnotationText); text != "" {
			b.WriteString(` - "`)
			b.WriteString(Truncate(text, SnippetLength))
			b.WriteString(`"`)
		}
		if comment := strings.TrimSpace(rec.AnnotationComment); comment != "" {
			b.WriteString(" (Comment: ")
			b.WriteString(Truncate(comment, SnippetLength))
			b.WriteString(")")
		}
		if rec.AnnotationColor != "" {
			b.WriteString(" (")
			b.WriteString(rec.AnnotationColor)
			b.WriteString(")")
		}
		writeChips(&b, rec.AnnotationTags)
	}

	writeChips(&b, rec.ArticleTags)

	if rec.ActivityType.IsNote() && rec.NoteText != "" {
		if para := activity.NoteParagraph(rec.NoteText); para != "" {
			b.WriteString(`: "`)
			b.WriteString(Truncate(para, SnippetLength))
			b.WriteString(`"`)
		}
	}
	return b.String()
}

// Truncate caps s at n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func writeChips(b *strings.Builder, tags []activity.Tag) {
	for _, tag := range tags {
		if tag.Tag == "" {
			continue
		}
		b.WriteString(" [")
		b.WriteString(tag.Tag)
		b.WriteString("]")
	}
}
