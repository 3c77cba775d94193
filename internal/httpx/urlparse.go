package httpx

import (
	"strings"

	"github.com/gamh86/netwasabi/internal/errs"
)

// ParseHost extracts the authority from an absolute URL: the text between
// "://" and the first "/" (or end of string). Embedded credentials are
// rejected rather than stripped, matching URL_parse_host's contract that
// the result never contains userinfo.
func ParseHost(rawURL string) (string, error) {
	rest := rawURL
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		rest = rawURL[idx+3:]
	}
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		rest = rest[:slash]
	}
	if rest == "" {
		return "", errs.New(errs.ProtocolError, "url has no host")
	}
	if strings.ContainsRune(rest, '@') {
		return "", errs.New(errs.ProtocolError, "url host contains credentials")
	}
	return rest, nil
}

// ParsePage extracts the path component including its leading "/"; a URL
// with no path resolves to "/", matching URL_parse_page.
func ParsePage(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		rest = rawURL[idx+3:]
	}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "/"
	}
	page := rest[slash:]
	if frag := strings.IndexByte(page, '#'); frag >= 0 {
		page = page[:frag]
	}
	if page == "" {
		return "/"
	}
	return page
}
