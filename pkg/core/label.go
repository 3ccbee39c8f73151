package core

import "strings"

// DecodeLabel splits a "name (id)" label into its name and identifier.
//
// The identifier suffix starts at the first unescaped "(" when that paren is
// preceded by a space, and runs to the next ")" or to the end of the label.
// Text after the closing paren is ignored. Labels whose first unescaped paren
// is not such a suffix are returned whole as the name. An empty id means the
// entity has none yet.
//
// In the name, `\(`, `\-` and `\\` stand for the escaped character; any other
// backslash is literal. The id is taken verbatim.
func DecodeLabel(label string) (name, id string) {
	var b strings.Builder
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c == '\\' && i+1 < len(label) && isEscapable(label[i+1]) {
			b.WriteByte(label[i+1])
			i++
			continue
		}
		if c != '(' {
			b.WriteByte(c)
			continue
		}
		if i < 1 || label[i-1] != ' ' {
			return unescape(label), ""
		}
		name = b.String()
		id = label[i+1:]
		if end := strings.IndexByte(id, ')'); end >= 0 {
			id = id[:end]
		}
		return name[:len(name)-1], id
	}
	return b.String(), ""
}

// EncodeLabel is the inverse of DecodeLabel. Parens and backslashes in name are
// escaped, as is a leading removal marker, so any name survives the round trip.
func EncodeLabel(name, id string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '\\' || c == '(' || (i == 0 && c == RemovalMarker[0]) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	if id != "" {
		b.WriteString(" (")
		b.WriteString(id)
		b.WriteString(")")
	}
	return b.String()
}

// IsRemoval reports whether a label asks for its item to be closed: it starts
// with an unescaped removal marker.
func IsRemoval(label string) bool {
	return strings.HasPrefix(label, RemovalMarker)
}

func isEscapable(c byte) bool {
	return c == '\\' || c == '(' || c == RemovalMarker[0]
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isEscapable(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
