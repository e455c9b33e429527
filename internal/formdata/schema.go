// Package formdata builds multipart payloads from typed resource inputs.
//
// Each resource declares a Schema: an ordered list of fields, each either a plain
// value, a single attachment, or a repeated attachment, with the name used on the
// wire. Accessors are typed against the input struct, so a schema that refers to a
// field the input does not have fails to compile.
package formdata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a schema field.
type Kind int

const (
	Plain Kind = iota
	Attachment
	RepeatedAttachment
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Attachment:
		return "attachment"
	case RepeatedAttachment:
		return "repeated-attachment"
	}
	return "unknown"
}

// Field describes one input field of T and how it is written to the payload.
type Field[T any] struct {
	Name     string // name of the field on the input
	WireName string // name of the multipart part
	Kind     Kind

	text  func(*T) (string, bool)
	files func(*T) []*File
	extra func(*T) map[string]any
}

// Schema is the ordered field list of one resource input.
type Schema[T any] []Field[T]

// String declares a plain text field. A nil pointer leaves the field out.
func String[T any](name string, get func(*T) *string) Field[T] {
	return plain(name, func(in *T) (string, bool) {
		v := get(in)
		if v == nil {
			return "", false
		}
		return *v, true
	})
}

// Int declares a plain integer field.
func Int[T any](name string, get func(*T) *int) Field[T] {
	return plain(name, func(in *T) (string, bool) {
		v := get(in)
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	})
}

// Float declares a plain decimal field.
func Float[T any](name string, get func(*T) *float64) Field[T] {
	return plain(name, func(in *T) (string, bool) {
		v := get(in)
		if v == nil {
			return "", false
		}
		return strconv.FormatFloat(*v, 'f', -1, 64), true
	})
}

// Bool declares a plain boolean field, sent as "true" or "false".
func Bool[T any](name string, get func(*T) *bool) Field[T] {
	return plain(name, func(in *T) (string, bool) {
		v := get(in)
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	})
}

// StringList declares a plain field holding a list, sent comma-joined.
// A nil slice leaves the field out; an empty, non-nil slice sends "".
func StringList[T any](name string, get func(*T) []string) Field[T] {
	return plain(name, func(in *T) (string, bool) {
		v := get(in)
		if v == nil {
			return "", false
		}
		return strings.Join(v, ","), true
	})
}

// Extra declares pass-through plain fields collected from an untyped map. Keys are
// written in sorted order; keys claimed by another field of the schema and nil
// values are skipped.
func Extra[T any](get func(*T) map[string]any) Field[T] {
	return Field[T]{Kind: Plain, extra: get}
}

// Single declares an attachment sent under wireName.
func Single[T any](name, wireName string, get func(*T) *File) Field[T] {
	return Field[T]{
		Name:     name,
		WireName: wireName,
		Kind:     Attachment,
		files: func(in *T) []*File {
			return []*File{get(in)}
		},
	}
}

// Repeated declares a list of attachments, each sent as its own part under
// wireName in input order.
func Repeated[T any](name, wireName string, get func(*T) []*File) Field[T] {
	return Field[T]{
		Name:     name,
		WireName: wireName,
		Kind:     RepeatedAttachment,
		files:    get,
	}
}

func plain[T any](name string, get func(*T) (string, bool)) Field[T] {
	return Field[T]{Name: name, WireName: name, Kind: Plain, text: get}
}

// Build creates a fresh payload from in. Attachments that are not real files are
// dropped.
func (s Schema[T]) Build(in *T) *Payload {
	p := NewPayload()
	if in == nil {
		return p
	}
	for _, f := range s {
		switch {
		case f.extra != nil:
			s.appendExtra(p, f.extra(in))
		case f.text != nil:
			if v, ok := f.text(in); ok {
				p.AddField(f.WireName, v)
			}
		case f.files != nil:
			for _, file := range f.files(in) {
				if file.IsFile() {
					p.AddFile(f.WireName, file)
				}
			}
		}
	}
	return p
}

func (s Schema[T]) appendExtra(p *Payload, extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k, v := range extra {
		if v == nil || s.claims(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.AddField(k, stringify(extra[k]))
	}
}

// claims reports whether name is an input or wire name declared by the schema.
func (s Schema[T]) claims(name string) bool {
	for _, f := range s {
		if f.extra != nil {
			continue
		}
		if f.Name == name || f.WireName == name {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
