package extractors

import (
	"regexp"
	"strings"
)

// region is one kind of delimited literal a language has.
type region struct {
	open      string
	close     string
	escapes   bool
	multiline bool
	// prefixed regions start with a letter (f"...") that must not be the
	// tail of a longer identifier.
	prefixed bool
	clean    func(string) string
}

// read returns the body of the region starting at rest and the number of
// bytes consumed. ok is false when the region is not terminated.
func (r region) read(rest string) (body string, consumed int, ok bool) {
	for j := len(r.open); j < len(rest); j++ {
		switch {
		case r.escapes && rest[j] == '\\':
			j++
		case !r.multiline && rest[j] == '\n':
			return "", 0, false
		case strings.HasPrefix(rest[j:], r.close):
			return rest[len(r.open):j], j + len(r.close), true
		}
	}
	return "", 0, false
}

// sourceScanner walks source text once, left to right. A consumed region is
// never re-scanned, so one literal yields at most one fragment.
type sourceScanner struct {
	regions       []region
	lineComments  []string
	blockComments [][2]string
	heredocs      bool
}

func (s sourceScanner) scan(source string) []string {
	var found []string

	for i := 0; i < len(source); {
		rest := source[i:]

		if s.isLineComment(rest) {
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				break
			}
			i += end + 1
			continue
		}

		if closer, opener, ok := s.blockComment(rest); ok {
			end := strings.Index(rest[len(opener):], closer)
			if end < 0 {
				break
			}
			i += len(opener) + end + len(closer)
			continue
		}

		if s.heredocs {
			if body, consumed, nowdoc, ok := readHeredoc(rest); ok {
				if LooksLikeMarkup(body) {
					if !nowdoc {
						body = stripPhpVariables(body)
					}
					found = append(found, body)
				}
				i += consumed
				continue
			}
		}

		if r, ok := s.regionAt(source, i); ok {
			body, consumed, closed := r.read(rest)
			if !closed {
				i += len(r.open)
				continue
			}
			if LooksLikeMarkup(body) {
				if r.clean != nil {
					body = r.clean(body)
				}
				found = append(found, body)
			}
			i += consumed
			continue
		}

		i++
	}

	return found
}

func (s sourceScanner) isLineComment(rest string) bool {
	for _, prefix := range s.lineComments {
		if strings.HasPrefix(rest, prefix) {
			return true
		}
	}
	return false
}

func (s sourceScanner) blockComment(rest string) (closer, opener string, ok bool) {
	for _, pair := range s.blockComments {
		if strings.HasPrefix(rest, pair[0]) {
			return pair[1], pair[0], true
		}
	}
	return "", "", false
}

func (s sourceScanner) regionAt(source string, i int) (region, bool) {
	rest := source[i:]
	for _, r := range s.regions {
		if !strings.HasPrefix(rest, r.open) {
			continue
		}
		if r.prefixed && i > 0 && isWordByte(source[i-1]) {
			continue
		}
		return r, true
	}
	return region{}, false
}

var heredocStart = regexp.MustCompile(`^<<<[ \t]*(["']?)([A-Za-z_]\w*)(["']?)\r?\n`)

// readHeredoc reads a PHP heredoc or nowdoc body. The closing identifier may
// be indented and must not be followed by a word character.
func readHeredoc(rest string) (body string, consumed int, nowdoc bool, ok bool) {
	m := heredocStart.FindStringSubmatch(rest)
	if m == nil || m[1] != m[3] {
		return "", 0, false, false
	}
	id := m[2]
	start := len(m[0])

	for pos := start; pos <= len(rest); {
		line := rest[pos:]
		end := strings.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, id) && (len(trimmed) == len(id) || !isWordByte(trimmed[len(id)])) {
			body = strings.TrimSuffix(strings.TrimSuffix(rest[start:pos], "\n"), "\r")
			consumed = pos + len(line) - len(trimmed) + len(id)
			return body, consumed, m[1] == "'", true
		}

		if end < 0 {
			break
		}
		pos += end + 1
	}
	return "", 0, false, false
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
