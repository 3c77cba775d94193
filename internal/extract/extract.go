// Package extract pulls URLs out of fetched documents: a tokenizer-backed
// extractor resolving each link against the page's own URL, a byte-offset
// span scanner, and an in-place rewriter that makes intra-document URLs
// absolute before the page is persisted.
package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor is the external collaborator contract: implementations need not
// use HTML at all (e.g. a sitemap or JSON-API variant), so callers depend
// on this interface rather than the concrete Default type.
type Extractor interface {
	Extract(base *url.URL, body []byte) ([]string, error)
}

// Default extracts href/src attributes from anchor, link, script and img
// tags, resolving each against base.
type Default struct{}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
}

func (Default) Extract(base *url.URL, body []byte) ([]string, error) {
	var out []string
	seen := map[string]bool{}

	z := html.NewTokenizer(strings.NewReader(string(body)))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out, nil
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tok := z.Token()
		attrName, ok := linkAttrs[tok.Data]
		if !ok {
			continue
		}

		for _, a := range tok.Attr {
			if a.Key != attrName {
				continue
			}
			val := strings.TrimSpace(a.Val)
			if val == "" || strings.HasPrefix(val, "mailto:") || strings.HasPrefix(val, "javascript:") {
				continue
			}
			resolved, err := base.Parse(val)
			if err != nil {
				continue
			}
			abs := resolved.String()
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
		}
	}
}
