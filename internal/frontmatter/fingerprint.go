package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint computes a stable content fingerprint of a document from its
// front matter and body. The block is hashed in its serialized form without
// markers, so field order in the source does not matter.
func Fingerprint(fm *FrontMatter, body []byte) string {
	block := ""
	if fm != nil {
		s := string(Serialize(fm))
		s = strings.TrimPrefix(s, OpenMarker+"\n")
		s = strings.TrimSuffix(s, CloseMarker+"\n")
		block = strings.TrimSuffix(s, "\n")
	}
	return mdfp.CalculateFingerprintFromParts(block, string(body))
}
