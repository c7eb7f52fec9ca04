package activity

import (
	"encoding/json"
	"time"
)

// ActivityType is the semantic tag derived for an observed event.
type ActivityType string

const (
	TypeSelectTab  ActivityType = "select_tab"
	TypeLoadTab    ActivityType = "load_tab"
	TypeAddTab     ActivityType = "add_tab"
	TypeCloseTab   ActivityType = "close_tab"
	TypeOpenFile   ActivityType = "open_file"
	TypeCloseFile  ActivityType = "close_file"
	TypeAddItem    ActivityType = "add_item"
	TypeModifyItem ActivityType = "modify_item"
	TypeTrashItem  ActivityType = "trash_item"
	TypeDeleteItem ActivityType = "delete_item"
	TypeIndexItem  ActivityType = "index_item"
	TypeRefresh    ActivityType = "refresh_item"

	TypeHighlightAnnotation ActivityType = "highlight_annotation"
	TypeUnderlineAnnotation ActivityType = "underline_annotation"
	TypeNoteAnnotation      ActivityType = "note_annotation"
	TypeTextAnnotation      ActivityType = "text_annotation"
	TypeImageAnnotation     ActivityType = "image_annotation"
	TypeInkAnnotation       ActivityType = "ink_annotation"
	TypeAddAnnotation       ActivityType = "add_annotation"
	TypeModifyAnnotation    ActivityType = "modify_annotation"
	TypeDeleteAnnotation    ActivityType = "delete_annotation"

	TypeAddNote    ActivityType = "add_note"
	TypeModifyNote ActivityType = "modify_note"
	TypeTrashNote  ActivityType = "trash_note"
	TypeDeleteNote ActivityType = "delete_note"

	// TypeOther covers notifier combinations outside the classification table.
	// The raw event and entity kind stay on the record.
	TypeOther ActivityType = "other"
)

// AllTypes lists every ActivityType in display order.
var AllTypes = []ActivityType{
	TypeHighlightAnnotation, TypeUnderlineAnnotation, TypeNoteAnnotation,
	TypeTextAnnotation, TypeImageAnnotation, TypeInkAnnotation,
	TypeAddAnnotation, TypeModifyAnnotation, TypeDeleteAnnotation,
	TypeAddNote, TypeModifyNote, TypeTrashNote, TypeDeleteNote,
	TypeAddItem, TypeModifyItem, TypeTrashItem, TypeDeleteItem,
	TypeIndexItem, TypeRefresh,
	TypeOpenFile, TypeCloseFile,
	TypeSelectTab, TypeLoadTab, TypeAddTab, TypeCloseTab,
	TypeOther,
}

// Valid reports whether t is a member of the closed ActivityType set.
func (t ActivityType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsAnnotation reports whether t describes an annotation action.
func (t ActivityType) IsAnnotation() bool {
	switch t {
	case TypeHighlightAnnotation, TypeUnderlineAnnotation, TypeNoteAnnotation,
		TypeTextAnnotation, TypeImageAnnotation, TypeInkAnnotation,
		TypeAddAnnotation, TypeModifyAnnotation, TypeDeleteAnnotation:
		return true
	}
	return false
}

// IsNote reports whether t describes a note action.
func (t ActivityType) IsNote() bool {
	switch t {
	case TypeAddNote, TypeModifyNote, TypeTrashNote, TypeDeleteNote:
		return true
	}
	return false
}

// EntityKind is the coarse kind the host notifier reports.
type EntityKind string

const (
	KindItem EntityKind = "item"
	KindFile EntityKind = "file"
	KindTab  EntityKind = "tab"
)

// Supported reports whether the engine observes notifications of this kind.
func (k EntityKind) Supported() bool {
	return k == KindItem || k == KindFile || k == KindTab
}

// Item types with dedicated classification branches.
const (
	ItemTypeAnnotation = "annotation"
	ItemTypeAttachment = "attachment"
	ItemTypeNote       = "note"
)

// Tag is a tag object attached to an item or annotation.
type Tag struct {
	Tag  string `json:"tag"`
	Type int    `json:"type,omitempty"`
}

// Entity is a host snapshot of an item, attachment, annotation or note.
type Entity struct {
	ID                string   `json:"id"`
	Key               string   `json:"key,omitempty"`
	ItemType          string   `json:"itemType,omitempty"`
	ParentID          string   `json:"parentId,omitempty"`
	LibraryID         *int64   `json:"libraryId,omitempty"`
	Collections       []string `json:"collections,omitempty"`
	DisplayTitle      string   `json:"displayTitle,omitempty"`
	Tags              []Tag    `json:"tags,omitempty"`
	Annotations       []string `json:"annotations,omitempty"`
	AttachmentPath    string   `json:"attachmentPath,omitempty"`
	AnnotationType    string   `json:"annotationType,omitempty"`
	AnnotationText    string   `json:"annotationText,omitempty"`
	AnnotationComment string   `json:"annotationComment,omitempty"`
	AnnotationColor   string   `json:"annotationColor,omitempty"`
	NoteText          string   `json:"noteText,omitempty"`
}

// Notification is one raw notifier callback.
type Notification struct {
	// CorrelationID ties log lines of one notification together.
	CorrelationID string          `json:"-"`
	Event         string          `json:"event"`
	Kind          EntityKind      `json:"type"`
	IDs           []string        `json:"ids"`
	Extra         json.RawMessage `json:"extraData,omitempty"`
}

// Record is one persisted activity row. Records are never mutated once written.
type Record struct {
	ID           int64        `json:"id"`
	ActivityID   string       `json:"activityId"`
	ActivityType ActivityType `json:"activityType"`
	Event        string       `json:"event"`
	EntityKind   EntityKind   `json:"type"`
	ItemType     string       `json:"itemType"`
	Timestamp    time.Time    `json:"timestamp"`

	LibraryID          *int64   `json:"libraryId,omitempty"`
	CollectionIDs      []string `json:"collectionIds,omitempty"`
	ArticleID          string   `json:"articleId,omitempty"`
	ArticleKey         string   `json:"articleKey,omitempty"`
	ArticleTitle       string   `json:"articleTitle,omitempty"`
	ArticleTags        []Tag    `json:"articleTags,omitempty"`
	ArticleAnnotations []string `json:"articleAnnotations,omitempty"`

	AttachmentID   string `json:"attachmentId,omitempty"`
	AttachmentKey  string `json:"attachmentKey,omitempty"`
	AttachmentPath string `json:"attachmentPath,omitempty"`

	AnnotationID      string `json:"annotationId,omitempty"`
	AnnotationKey     string `json:"annotationKey,omitempty"`
	AnnotationText    string `json:"annotationText,omitempty"`
	AnnotationComment string `json:"annotationComment,omitempty"`
	AnnotationTags    []Tag  `json:"annotationTags,omitempty"`
	AnnotationColor   string `json:"annotationColor,omitempty"`

	NoteID   string `json:"noteId,omitempty"`
	NoteKey  string `json:"noteKey,omitempty"`
	NoteText string `json:"noteText,omitempty"`

	ExtraData json.RawMessage `json:"extraData,omitempty"`
}

// HasArticle reports whether the record is attributed to an article.
func (r Record) HasArticle() bool {
	return r.ArticleKey != "" || r.ArticleID != ""
}

// Extra is the snapshot stored in Record.ExtraData.
type Extra struct {
	Article    *Entity         `json:"articleItem,omitempty"`
	Attachment *Entity         `json:"attachmentItem,omitempty"`
	Annotation *Entity         `json:"annotationItem,omitempty"`
	Note       *Entity         `json:"noteItem,omitempty"`
	Notifier   json.RawMessage `json:"notifier,omitempty"`
}
