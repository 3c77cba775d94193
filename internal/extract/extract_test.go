package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractResolvesRelativeLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/docs/")
	require.NoError(t, err)

	body := []byte(`
		<html><body>
			<a href="../about">about</a>
			<a href="page.html">page</a>
			<a href="mailto:foo@example.com">mail</a>
			<a href="https://other.com/x">absolute</a>
			<img src="logo.png">
		</body></html>
	`)

	links, err := Default{}.Extract(base, body)
	require.NoError(t, err)
	require.Contains(t, links, "https://example.com/about")
	require.Contains(t, links, "https://example.com/docs/page.html")
	require.Contains(t, links, "https://other.com/x")
	require.Contains(t, links, "https://example.com/docs/logo.png")
	for _, l := range links {
		require.NotContains(t, l, "mailto:")
	}
}

func TestScanFindsAttributeSpans(t *testing.T) {
	body := []byte(`<a HREF="/x">a</a><img src='logo.png'>{"src":"/api/y"}`)
	spans := Scan(body)
	require.Len(t, spans, 3)

	require.Equal(t, "/x", string(body[spans[0].Start:spans[0].End]))
	require.Equal(t, byte('"'), spans[0].Quote)
	require.Equal(t, "logo.png", string(body[spans[1].Start:spans[1].End]))
	require.Equal(t, byte('\''), spans[1].Quote)
	require.Equal(t, "/api/y", string(body[spans[2].Start:spans[2].End]))
}

func TestRewriteMakesURLsAbsolute(t *testing.T) {
	base, err := url.Parse("http://example.test/docs/")
	require.NoError(t, err)

	body := []byte(`<a href="/a">a</a><a href="page.html">p</a><a href="http://example.test/abs">ok</a>`)
	out := Rewrite(base, body)

	require.Equal(t,
		`<a href="http://example.test/a">a</a><a href="http://example.test/docs/page.html">p</a><a href="http://example.test/abs">ok</a>`,
		string(out))
}

func TestRewriteHandlesNarrowing(t *testing.T) {
	base, err := url.Parse("http://e.t/")
	require.NoError(t, err)

	// dot-segment removal narrows the span in place
	body := []byte(`<a href="http://e.t/../../a">x</a>`)
	out := Rewrite(base, body)
	require.Equal(t, `<a href="http://e.t/a">x</a>`, string(out))
}

func TestExtractDedupes(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	body := []byte(`<a href="/a">1</a><a href="/a">2</a>`)
	links, err := Default{}.Extract(base, body)
	require.NoError(t, err)
	require.Len(t, links, 1)
}
