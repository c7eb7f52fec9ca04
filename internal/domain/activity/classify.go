package activity

// baseKey is one (event, entity kind) combination from the notifier.
type baseKey struct {
	event string
	kind  EntityKind
}

// baseTypes maps raw notifier combinations to their default ActivityType.
// Combinations not listed classify as TypeOther.
var baseTypes = map[baseKey]ActivityType{
	{"select", KindTab}: TypeSelectTab,
	{"load", KindTab}:   TypeLoadTab,
	{"add", KindTab}:    TypeAddTab,
	{"close", KindTab}:  TypeCloseTab,

	{"open", KindFile}:  TypeOpenFile,
	{"close", KindFile}: TypeCloseFile,

	{"add", KindItem}:     TypeAddItem,
	{"modify", KindItem}:  TypeModifyItem,
	{"trash", KindItem}:   TypeTrashItem,
	{"delete", KindItem}:  TypeDeleteItem,
	{"index", KindItem}:   TypeIndexItem,
	{"refresh", KindItem}: TypeRefresh,
}

// annotationAdds maps an annotation's own subtype to the type recorded when it is added.
var annotationAdds = map[string]ActivityType{
	"highlight": TypeHighlightAnnotation,
	"underline": TypeUnderlineAnnotation,
	"note":      TypeNoteAnnotation,
	"text":      TypeTextAnnotation,
	"image":     TypeImageAnnotation,
	"ink":       TypeInkAnnotation,
}

var annotationEvents = map[string]ActivityType{
	"modify": TypeModifyAnnotation,
	"delete": TypeDeleteAnnotation,
}

var noteEvents = map[string]ActivityType{
	"add":    TypeAddNote,
	"modify": TypeModifyNote,
	"trash":  TypeTrashNote,
	"delete": TypeDeleteNote,
}

// BaseType returns the default classification of a raw notifier combination.
func BaseType(event string, kind EntityKind) ActivityType {
	if t, ok := baseTypes[baseKey{event, kind}]; ok {
		return t
	}
	return TypeOther
}

// AnnotationType returns the type for an item event on an annotation of the given subtype.
// ok is false when the event has no annotation-specific classification.
func AnnotationType(event, subtype string) (ActivityType, bool) {
	if event == "add" {
		if t, ok := annotationAdds[subtype]; ok {
			return t, true
		}
		return TypeAddAnnotation, true
	}
	t, ok := annotationEvents[event]
	return t, ok
}

// NoteType returns the type for an item event on a note.
func NoteType(event string) (ActivityType, bool) {
	t, ok := noteEvents[event]
	return t, ok
}

// ClosePolicy decides which notifications reset or set document focus.
type ClosePolicy struct {
	// CloseTypes clear every context slot when they are the base type.
	CloseTypes []ActivityType
	// CloseSentinels clear every context slot when they are the subject id.
	CloseSentinels []string
	// FocusTypes set the attachment and article slots from the subject.
	FocusTypes []ActivityType
}

// DefaultClosePolicy returns the close and focus triggers of the host reader.
func DefaultClosePolicy() ClosePolicy {
	return ClosePolicy{
		CloseTypes:     []ActivityType{TypeCloseFile},
		CloseSentinels: []string{"zotero-pane"},
		FocusTypes:     []ActivityType{TypeSelectTab, TypeOpenFile, TypeLoadTab},
	}
}

// Closes reports whether a notification resets all context.
func (p ClosePolicy) Closes(base ActivityType, subjectID string) bool {
	for _, t := range p.CloseTypes {
		if t == base {
			return true
		}
	}
	for _, id := range p.CloseSentinels {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Focuses reports whether a notification moves document focus to its subject.
func (p ClosePolicy) Focuses(base ActivityType) bool {
	for _, t := range p.FocusTypes {
		if t == base {
			return true
		}
	}
	return false
}
