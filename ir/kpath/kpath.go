// Package kpath parses and prints paths into dynamic trees.
//
// Paths use the same syntax as error paths reported by the dyn package:
//   - "a.b" → field b of field a
//   - "a[0]" → element 0 of field a
//   - "[2].c" → field c of element 2 of a top level array
//   - "a.'b.c'" → field "b.c" of field a (quoted fields)
package kpath

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("kpath syntax error")

// KPath is a linked list of path segments.  Exactly one of Field or Index
// is set on each segment.
type KPath struct {
	Field *string
	Index *int
	Next  *KPath
}

func Field(name string) *KPath {
	return &KPath{Field: &name}
}

func Index(i int) *KPath {
	return &KPath{Index: &i}
}

// String returns the path string representation of this KPath.
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		if x.Field != nil {
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(x.SegmentString())
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// SegmentString returns the representation of this single segment.
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	if p.Field != nil {
		if QuoteField(*p.Field) {
			return quote(*p.Field)
		}
		return *p.Field
	}
	if p.Index != nil {
		return "[" + strconv.Itoa(*p.Index) + "]"
	}
	return ""
}

// QuoteField reports whether a field must be quoted to be parsed back.
func QuoteField(f string) bool {
	if f == "" {
		return true
	}
	if f[0] == '\'' || f[0] == '"' {
		return true
	}
	return strings.ContainsAny(f, ".[] \t\n")
}

func quote(f string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(f, `\`, `\\`), "'", `\'`) + "'"
}

// Last returns the final segment.
func (p *KPath) Last() *KPath {
	if p == nil {
		return nil
	}
	x := p
	for x.Next != nil {
		x = x.Next
	}
	return x
}

// Parent returns the path without its final segment, or nil if p has a
// single segment.
func (p *KPath) Parent() *KPath {
	if p == nil || p.Next == nil {
		return nil
	}
	res := &KPath{Field: p.Field, Index: p.Index}
	res.Next = p.Next.Parent()
	return res
}

// Parse parses a path.  The empty path yields nil.
func Parse(kp string) (*KPath, error) {
	if kp == "" {
		return nil, nil
	}
	if kp[0] == '.' {
		return nil, fmt.Errorf("%w: leading '.' in %q", ErrSyntax, kp)
	}
	res, err := parseFrag(kp, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
	}
	return res, nil
}

// Join joins two path strings, following the same rule as error path
// composition: a suffix starting with '[' is concatenated directly.
func Join(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" || suffix[0] == '[' {
		return prefix + suffix
	}
	return prefix + "." + suffix
}

func parseFrag(frag string, first bool) (*KPath, error) {
	if frag == "" {
		return nil, nil
	}
	switch frag[0] {
	case '.':
		if first {
			return nil, fmt.Errorf("unexpected '.'")
		}
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return nil, err
		}
		next, err := parseFrag(rest, false)
		if err != nil {
			return nil, err
		}
		return &KPath{Field: &field, Next: next}, nil
	case '[':
		end := strings.IndexByte(frag, ']')
		if end == -1 {
			return nil, fmt.Errorf("unterminated index in %q", frag)
		}
		u64, err := strconv.ParseUint(frag[1:end], 10, 31)
		if err != nil {
			return nil, fmt.Errorf("invalid array index %q: %v", frag[1:end], err)
		}
		i := int(u64)
		next, err := parseFrag(frag[end+1:], false)
		if err != nil {
			return nil, err
		}
		return &KPath{Index: &i, Next: next}, nil
	default:
		if !first {
			return nil, fmt.Errorf("expected '.' or '[' at %q", frag)
		}
		field, rest, err := parseField(frag)
		if err != nil {
			return nil, err
		}
		next, err := parseFrag(rest, false)
		if err != nil {
			return nil, err
		}
		return &KPath{Field: &field, Next: next}, nil
	}
}

// parseField parses an object field name from a fragment.
// It stops at '.' or '['.
func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] == '\'' || frag[0] == '"' {
		return parseQuoted(frag)
	}
	i := strings.IndexAny(frag, ".[")
	if i == -1 {
		return frag, "", nil
	}
	if i == 0 {
		return "", "", fmt.Errorf("empty field at %q", frag)
	}
	return frag[:i], frag[i:], nil
}

func parseQuoted(frag string) (field, rest string, err error) {
	q := frag[0]
	buf := strings.Builder{}
	escaped := false
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case escaped:
			buf.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == q:
			return buf.String(), frag[i+1:], nil
		default:
			buf.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted field %q", frag)
}
