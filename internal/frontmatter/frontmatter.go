package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// OpenMarker starts a front matter block; it must be the first bytes of the file.
	OpenMarker = "<!--"
	// CloseMarker ends a front matter block.
	CloseMarker = "-->"
)

// Recognised keys. Every other key is kept verbatim in FrontMatter.Params.
const (
	KeyTitle  = "title"
	KeyLayout = "layout"
	KeyMenu   = "menu"
)

// ErrInvalidFrontMatter indicates a delimited block was found but its
// contents are not line-oriented `key = value` pairs.
var ErrInvalidFrontMatter = errors.New("invalid front matter block")

// FrontMatter is the metadata block of a single content file.
//
// A nil *FrontMatter means the file had no block: no title override, the
// default layout and no menu membership.
type FrontMatter struct {
	Title  string
	Layout string
	Menu   string
	Params map[string]string
}

// Split separates a `<!-- ... -->` front matter block from the Markdown body.
//
// The block must open at the very first byte and closes at the first
// following `-->`. Both the block and the body must be non-empty: a file made
// only of a block, with nothing after the closing marker, is treated as
// body-only input. If had is false, body is the full input.
func Split(content []byte) (block []byte, body []byte, had bool) {
	open := []byte(OpenMarker)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false
	}

	rest := content[len(open):]
	idx := bytes.Index(rest, []byte(CloseMarker))
	if idx <= 0 {
		return nil, content, false
	}

	bodyStart := idx + len(CloseMarker)
	if bodyStart >= len(rest) {
		return nil, content, false
	}
	return rest[:idx], rest[bodyStart:], true
}

// Parse splits content and decodes the block. It returns a nil FrontMatter
// when the content carries no block.
func Parse(content []byte) (*FrontMatter, []byte, error) {
	block, body, had := Split(content)
	if !had {
		return nil, body, nil
	}

	fields, err := ParseBlock(block)
	if err != nil {
		return nil, nil, err
	}
	return FromMap(fields), body, nil
}

// ParseBlock decodes raw block text (without markers) into a key/value map.
// Sections are not allowed; values wrapped in quotes are unquoted. A line
// without a delimiter is a key with an empty value, so an ordinary leading
// HTML comment parses as front matter made of one bare label.
func ParseBlock(block []byte) (map[string]string, error) {
	block = bytes.TrimSpace(block)
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		KeyValueDelimiters:  "=",
		AllowBooleanKeys:    true,
	}, block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	for _, sec := range f.Sections() {
		if sec.Name() != ini.DefaultSection {
			return nil, fmt.Errorf("%w: unexpected section [%s]", ErrInvalidFrontMatter, sec.Name())
		}
	}

	bare := bareLabels(block)
	out := map[string]string{}
	for _, k := range f.Section(ini.DefaultSection).Keys() {
		if bare[k.Name()] {
			out[k.Name()] = ""
			continue
		}
		out[k.Name()] = k.String()
	}
	return out, nil
}

// bareLabels returns the lines of block that carry no delimiter.
func bareLabels(block []byte) map[string]bool {
	out := map[string]bool{}
	for line := range strings.SplitSeq(string(block), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "=") || strings.ContainsAny(line[:1], ";#[") {
			continue
		}
		out[line] = true
	}
	return out
}

// FromMap populates the named fields from a raw key/value mapping.
func FromMap(fields map[string]string) *FrontMatter {
	fm := &FrontMatter{Params: map[string]string{}}
	for k, v := range fields {
		switch k {
		case KeyTitle:
			fm.Title = v
		case KeyLayout:
			fm.Layout = v
		case KeyMenu:
			fm.Menu = v
		default:
			fm.Params[k] = v
		}
	}
	return fm
}
