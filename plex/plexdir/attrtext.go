// Package plexdir parses Plex's directory listings (the server and
// resource catalogues served by plex.tv) into typed records, and resolves
// user queries against them.
//
// The /pms/servers and /api/resources endpoints return attribute-list text
// that is close to, but not quite, XML. The scanner in this package is
// deliberately minimal: it extracts key="value" pairs and tag blocks from
// well-formed, Plex-shaped output. It does not decode entities or handle
// CDATA, comments, or nested quotes.
package plexdir

import "strings"

// attr returns the first value of a name="value" pair in fragment. The
// second return value reports whether the attribute was present at all.
func attr(fragment, name string) (string, bool) {
	marker := name + `="`
	for pos := 0; pos < len(fragment); {
		idx := strings.Index(fragment[pos:], marker)
		if idx < 0 {
			break
		}
		idx += pos
		// skip matches on the tail of a longer attribute name, e.g.
		// "address" inside "publicAddress"
		if idx > 0 && isNameChar(fragment[idx-1]) {
			pos = idx + len(marker)
			continue
		}
		start := idx + len(marker)
		end := strings.IndexByte(fragment[start:], '"')
		if end < 0 {
			break
		}
		return fragment[start : start+end], true
	}
	return "", false
}

// boolAttr converts a "1"/"0"-coded attribute to a bool. Any other value,
// including absence, is false.
func boolAttr(fragment, name string) bool {
	value, _ := attr(fragment, name)
	return value == "1"
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// blocks returns the inner text of every <tag ...> element, in document
// order. For a self-closing <Tag .../> the block is the attribute text;
// for a container <Tag ...>body</Tag> it is the attribute text plus the
// body, so nested elements remain visible to a second blocks pass.
func blocks(text, tag string) []string {
	var found []string
	open := "<" + tag + " "
	closing := "</" + tag + ">"
	for pos := 0; ; {
		idx := strings.Index(text[pos:], open)
		if idx < 0 {
			return found
		}
		start := idx + pos + len(open)
		tagEnd, selfClosing := openTagEnd(text[start:])
		if tagEnd < 0 {
			return found
		}
		if selfClosing {
			found = append(found, text[start:start+tagEnd])
			pos = start + tagEnd
			continue
		}
		end := strings.Index(text[start:], closing)
		if end < 0 {
			return found
		}
		found = append(found, text[start:start+end])
		pos = start + end + len(closing)
	}
}

// openTagEnd locates the end of an open tag, tracking quotes so a '>'
// inside an attribute value does not terminate the tag early. It returns
// the offset of the terminating '>' (or of the '/' in '/>') and whether
// the tag was self-closing; -1 if the tag never closes.
func openTagEnd(s string) (int, bool) {
	var inQuote bool
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case '>':
			if inQuote {
				continue
			}
			if i > 0 && s[i-1] == '/' {
				return i - 1, true
			}
			return i, false
		}
	}
	return -1, false
}
