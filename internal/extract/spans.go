package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/gamh86/netwasabi/internal/netbuf"
)

// Span delimits one URL inside a document: body[Start:End] is the URL text
// and Quote is the quoting character that wrapped it.
type Span struct {
	Start int
	End   int
	Quote byte
}

var spanNames = [][]byte{[]byte("href"), []byte("src")}

// Scan finds URL-bearing attribute values in body: href="…", href='…',
// src="…", src='…' (case-insensitive) plus the JSON-embedded "src":"…"
// form, yielding one Span per hit in document order.
func Scan(body []byte) []Span {
	var spans []Span
	lower := bytes.ToLower(body)

	for i := 0; i < len(lower); i++ {
		for _, name := range spanNames {
			if !bytes.HasPrefix(lower[i:], name) {
				continue
			}
			j := i + len(name)
			switch {
			case j < len(body) && body[j] == '=':
				j++
			case j+1 < len(body) && body[j] == '"' && body[j+1] == ':':
				j += 2
			default:
				continue
			}
			if j >= len(body) || (body[j] != '"' && body[j] != '\'') {
				continue
			}
			q := body[j]
			k := bytes.IndexByte(body[j+1:], q)
			if k < 0 {
				continue
			}
			spans = append(spans, Span{Start: j + 1, End: j + 1 + k, Quote: q})
			i = j + k + 1
			break
		}
	}
	return spans
}

// Rewrite returns body with every scanned URL replaced by its form resolved
// against base. The document is edited in place: widening a URL opens a gap
// with the buffer's shift primitive and narrowing one collapses the excess,
// so spans later in the document stay addressable by running offset.
func Rewrite(base *url.URL, body []byte) []byte {
	spans := Scan(body)
	if len(spans) == 0 {
		return body
	}

	buf := netbuf.New(len(body))
	if err := buf.Append(body); err != nil {
		return body
	}

	delta := 0
	for _, s := range spans {
		start, end := s.Start+delta, s.End+delta
		orig := string(buf.Bytes()[start:end])
		if orig == "" || strings.HasPrefix(orig, "#") {
			continue
		}
		resolved, err := base.Parse(orig)
		if err != nil {
			continue
		}
		abs := resolved.String()
		if abs == orig {
			continue
		}

		if len(abs) > end-start {
			if err := buf.Shift(end, len(abs)-(end-start)); err != nil {
				continue
			}
		} else if len(abs) < end-start {
			buf.Collapse(start, (end-start)-len(abs))
		}
		copy(buf.Bytes()[start:start+len(abs)], abs)
		delta += len(abs) - (end - start)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
