package frontmatter

import (
	"bytes"
	"sort"
)

// Serialize writes fm as a delimited block including markers and a trailing
// newline.
//
// Determinism: recognised keys come first (title, layout, menu) followed by
// params sorted by key. Empty recognised fields are omitted.
func Serialize(fm *FrontMatter) []byte {
	if fm == nil {
		return []byte{}
	}

	var buf bytes.Buffer
	buf.WriteString(OpenMarker + "\n")
	writePair(&buf, KeyTitle, fm.Title)
	writePair(&buf, KeyLayout, fm.Layout)
	writePair(&buf, KeyMenu, fm.Menu)

	keys := make([]string, 0, len(fm.Params))
	for k := range fm.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writePair(&buf, k, fm.Params[k])
	}
	buf.WriteString(CloseMarker + "\n")
	return buf.Bytes()
}

// Join reassembles a document from front matter and body.
//
// If fm is nil, Join returns body as-is.
func Join(fm *FrontMatter, body []byte) []byte {
	if fm == nil {
		return body
	}
	block := Serialize(fm)
	out := make([]byte, 0, len(block)+len(body))
	out = append(out, block...)
	out = append(out, body...)
	return out
}

func writePair(buf *bytes.Buffer, key, value string) {
	if value == "" {
		return
	}
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteByte('\n')
}
