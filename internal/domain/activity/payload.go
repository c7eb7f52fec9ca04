package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Serialized sub-payloads (tags, id lists, extra data, note HTML) are decoded
// here and nowhere else. Every Parse function degrades malformed input to an
// empty value; the Decode variants report ErrMalformedPayload for logging.

// DecodeTags decodes a serialized tag list. Elements may be tag objects,
// plain strings, or strings holding a JSON-encoded tag object.
func DecodeTags(raw string) ([]Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("%w: tags: %v", ErrMalformedPayload, err)
	}
	tags := make([]Tag, 0, len(elems))
	for _, elem := range elems {
		tag, ok := decodeTag(elem)
		if ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// ParseTags is DecodeTags with malformed input treated as empty.
func ParseTags(raw string) []Tag {
	tags, err := DecodeTags(raw)
	if err != nil {
		return nil
	}
	return tags
}

func decodeTag(elem json.RawMessage) (Tag, bool) {
	var tag Tag
	if err := json.Unmarshal(elem, &tag); err == nil {
		return tag, tag.Tag != ""
	}
	var s string
	if err := json.Unmarshal(elem, &s); err != nil {
		return Tag{}, false
	}
	if err := json.Unmarshal([]byte(s), &tag); err == nil && tag.Tag != "" {
		return tag, true
	}
	s = strings.TrimSpace(s)
	return Tag{Tag: s}, s != ""
}

// DecodeIDList decodes a serialized list of ids. Numbers and strings are accepted.
func DecodeIDList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var elems []any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&elems); err != nil {
		return nil, fmt.Errorf("%w: id list: %v", ErrMalformedPayload, err)
	}
	return IDStrings(elems), nil
}

// ParseIDList is DecodeIDList with malformed input treated as empty.
func ParseIDList(raw string) []string {
	ids, err := DecodeIDList(raw)
	if err != nil {
		return nil
	}
	return ids
}

// IDString converts one loosely typed id to a string. Empty and
// non-scalar values yield "".
func IDString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}

// IDStrings converts loosely typed ids to strings, dropping empty and
// non-scalar values.
func IDStrings(values []any) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id := IDString(v); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// EncodeJSON serializes v for a nullable text column. Empty slices and nil
// values encode to nil.
func EncodeJSON(v any) (*string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []Tag:
		if len(x) == 0 {
			return nil, nil
		}
	case []string:
		if len(x) == 0 {
			return nil, nil
		}
	case json.RawMessage:
		if len(x) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	s := string(data)
	return &s, nil
}

// ParseExtra returns raw as JSON. Content that is not valid JSON is kept as a
// JSON string so nothing is lost.
func ParseExtra(raw string) json.RawMessage {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	data, _ := json.Marshal(raw)
	return data
}

// NoteParagraph returns the text of the first <p> element of a note, or the
// note's plain text when it has no paragraph. Broken markup never fails.
func NoteParagraph(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		inPara bool
		para   bytes.Buffer
		all    bytes.Buffer
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return strings.TrimSpace(all.String())
			}
			if inPara {
				return strings.TrimSpace(para.String())
			}
			return collapse(all.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.P && !inPara {
				inPara = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.P && inPara {
				if text := strings.TrimSpace(para.String()); text != "" {
					return text
				}
				inPara = false
				para.Reset()
			}
		case html.TextToken:
			text := z.Text()
			if inPara {
				para.Write(text)
			}
			all.Write(text)
			all.WriteByte(' ')
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
