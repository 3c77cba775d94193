// Package httpx implements the HTTP/1.1 request/response transaction over
// a netconn.Connection: request formatting, status-line and header parsing,
// length-delimited and chunked bodies, and bounded redirect following.
package httpx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gamh86/netwasabi/internal/errs"
	"github.com/gamh86/netwasabi/internal/netbuf"
	"github.com/gamh86/netwasabi/internal/netconn"
	"github.com/gamh86/netwasabi/internal/objpool"
)

// State is the transaction's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateAwaitingHeaders
	StateReadingBody
	StateComplete
	StateRedirected
	StateFailed
)

// MaxRedirects bounds automatic redirect following.
const MaxRedirects = 10

// Response is the parsed result of a completed transaction.
type Response struct {
	StatusCode int
	Header     map[string][]string
	Body       []byte
	FinalURL   string
	Redirects  int
}

// Transaction drives a single HTTP request/response exchange, identified by
// a UUID tag. Verb and Headers
// may be customized before the round trip; Host and User-Agent are always
// (re)inserted at send time.
type Transaction struct {
	ID      uuid.UUID
	Verb    string
	Headers HeaderList
	state   State
	conn    *netconn.Connection
}

// New creates a Transaction bound to an already-open connection.
func New(conn *netconn.Connection) *Transaction {
	return &Transaction{ID: uuid.New(), Verb: "GET", state: StateIdle, conn: conn}
}

// State returns the transaction's current lifecycle state.
func (t *Transaction) State() State { return t.state }

// TransactionPool recycles Transaction records across fetches instead of
// allocating one per URL. Safe for concurrent use by fast-mode workers,
// since objpool.Pool is itself mutex-guarded.
type TransactionPool struct {
	pool *objpool.Pool[Transaction]
}

// NewTransactionPool builds a TransactionPool with room for capacity
// in-flight transactions.
func NewTransactionPool(capacity int) *TransactionPool {
	return &TransactionPool{
		pool: objpool.New(capacity,
			func() Transaction { return Transaction{} },
			func(t *Transaction) { *t = Transaction{} },
		),
	}
}

// acquire reserves a slab slot for a transaction against conn. Exhaustion
// degrades to a freshly heap-allocated Transaction rather than failing the
// fetch outright, since a momentarily full slab is backpressure, not a
// fatal condition for a single URL.
func (tp *TransactionPool) acquire(conn *netconn.Connection) (*Transaction, int) {
	idx, slot, err := tp.pool.Get()
	if err != nil {
		return New(conn), -1
	}
	slot.ID = uuid.New()
	slot.Verb = "GET"
	slot.Headers = HeaderList{}
	slot.state = StateIdle
	slot.conn = conn
	return slot, idx
}

func (tp *TransactionPool) release(idx int) {
	if idx >= 0 {
		tp.pool.Put(idx)
	}
}

// Fetch performs a GET of target (an absolute URL) and follows redirects
// up to MaxRedirects. It allocates a fresh Transaction per call;
// FetchWithPool recycles one from a TransactionPool instead.
func Fetch(ctx context.Context, dial Dialer, target string, redirectsSoFar int) (*Response, error) {
	return FetchWithPool(ctx, dial, target, redirectsSoFar, nil)
}

// FetchWithPool is Fetch, but draws its Transaction from pool when pool is
// non-nil, returning the slot to the pool once the transaction reaches a
// terminal state.
func FetchWithPool(ctx context.Context, dial Dialer, target string, redirectsSoFar int, pool *TransactionPool) (*Response, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, errs.Wrap(errs.ProtocolError, "invalid url", err)
	}

	conn, err := dial.Dial(ctx, u)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var tx *Transaction
	var slot int = -1
	if pool != nil {
		tx, slot = pool.acquire(conn)
		defer pool.release(slot)
	} else {
		tx = New(conn)
	}

	resp, err := tx.roundTrip(u)
	if err != nil {
		tx.state = StateFailed
		return nil, err
	}

	if isRedirect(resp.StatusCode) {
		if redirectsSoFar >= MaxRedirects {
			return nil, errs.New(errs.ProtocolError, "too many redirects")
		}
		loc := firstHeader(resp.Header, "Location")
		if loc == "" {
			return nil, errs.New(errs.ProtocolError, "redirect without Location")
		}
		next, err := u.Parse(loc)
		if err != nil {
			return nil, errs.Wrap(errs.ProtocolError, "invalid redirect location", err)
		}
		tx.state = StateRedirected
		return FetchWithPool(ctx, dial, next.String(), redirectsSoFar+1, pool)
	}

	tx.state = StateComplete
	resp.FinalURL = u.String()
	resp.Redirects = redirectsSoFar
	return resp, nil
}

func isRedirect(code int) bool {
	switch code {
	case 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}

func firstHeader(h map[string][]string, key string) string {
	if vs := h[strings.ToLower(key)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// roundTrip builds and sends the request line/headers, then parses the
// status line, headers and body, walking the transaction through
// Idle->Sending->AwaitingHeaders->ReadingBody.
func (t *Transaction) roundTrip(u *url.URL) (*Response, error) {
	t.state = StateSending

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	t.Headers.Set("Host", u.Host)
	t.Headers.Set("User-Agent", "netwasabi/1.0")
	if t.Headers.Get("Accept") == "" {
		t.Headers.Add("Accept", "*/*")
	}
	t.Headers.Set("Connection", "close")

	var req strings.Builder
	fmt.Fprintf(&req, "%s %s HTTP/1.1\r\n", t.Verb, path)
	t.Headers.writeWire(&req)
	req.WriteString("\r\n")

	if err := t.conn.Write.AppendString(req.String()); err != nil {
		return nil, err
	}
	if _, err := t.conn.Flush(); err != nil {
		return nil, err
	}

	t.state = StateAwaitingHeaders
	br := bufio.NewReader(connReader{t.conn})

	statusLine, err := br.ReadString('\n')
	if err != nil {
		return nil, errs.Wrap(errs.ProtocolError, "failed reading status line", err)
	}
	code, err := parseStatusLine(statusLine)
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaders(br)
	if err != nil {
		return nil, err
	}

	t.state = StateReadingBody
	body, err := readBody(br, headers)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: code, Header: headers, Body: body}, nil
}

func parseStatusLine(line string) (int, error) {
	fields := strings.SplitN(strings.TrimRight(line, "\r\n"), " ", 3)
	if len(fields) < 2 {
		return 0, errs.New(errs.ProtocolError, "malformed status line")
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, errs.Wrap(errs.ProtocolError, "malformed status code", err)
	}
	return code, nil
}

func parseHeaders(br *bufio.Reader) (map[string][]string, error) {
	headers := map[string][]string{}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, errs.Wrap(errs.ProtocolError, "failed reading headers", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])
		headers[key] = append(headers[key], val)
	}
	return headers, nil
}

func readBody(br *bufio.Reader, headers map[string][]string) ([]byte, error) {
	if strings.EqualFold(firstHeader(headers, "Transfer-Encoding"), "chunked") {
		return readChunked(br)
	}
	if cl := firstHeader(headers, "Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil {
			return nil, errs.Wrap(errs.ProtocolError, "malformed content-length", err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, errs.Wrap(errs.ProtocolError, "short body read", err)
		}
		return buf, nil
	}
	return io.ReadAll(br)
}

// readChunked reads the remaining wire stream (the request always carries
// Connection: close, so EOF delimits it) and decodes the chunked framing in
// place: each chunk-size line and chunk terminator is collapsed out of the
// buffer so the body ends up contiguous without a per-chunk copy.
func readChunked(br *bufio.Reader) ([]byte, error) {
	raw, err := io.ReadAll(br)
	if err != nil {
		return nil, errs.Wrap(errs.ProtocolError, "failed reading chunked body", err)
	}

	buf := netbuf.New(len(raw))
	if err := buf.Append(raw); err != nil {
		return nil, err
	}
	if err := collapseChunks(buf); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// collapseChunks rewrites a complete chunked transfer body into its payload
// using Buffer.Collapse. pos always sits at the start of the next chunk-size
// line; everything before pos is already decoded payload.
func collapseChunks(buf *netbuf.Buffer) error {
	pos := 0
	for {
		live := buf.Bytes()
		nl := bytes.Index(live[pos:], []byte("\r\n"))
		if nl < 0 {
			return errs.New(errs.ProtocolError, "malformed chunk size line")
		}
		sizeField := strings.TrimSpace(strings.SplitN(string(live[pos:pos+nl]), ";", 2)[0])
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil || size < 0 {
			return errs.New(errs.ProtocolError, "malformed chunk size")
		}

		buf.Collapse(pos, nl+2)

		if size == 0 {
			// drop any trailer headers and the final blank line
			buf.Snip(buf.Len() - pos)
			return nil
		}

		if pos+int(size)+2 > buf.Len() {
			return errs.New(errs.ProtocolError, "truncated chunk")
		}
		pos += int(size)

		live = buf.Bytes()
		if live[pos] != '\r' || live[pos+1] != '\n' {
			return errs.New(errs.ProtocolError, "missing chunk terminator")
		}
		buf.Collapse(pos, 2)
	}
}

// connReader adapts Connection's buffered Fill into an io.Reader for
// bufio.Reader, topping up from the wire whenever the local buffer runs dry.
type connReader struct {
	c *netconn.Connection
}

func (r connReader) Read(p []byte) (int, error) {
	if r.c.Read.Len() == 0 {
		// A Fill can return bytes together with EOF; serve those bytes
		// first and report the error on the next call once the buffer
		// really is dry.
		if _, err := r.c.Fill(len(p)); err != nil && r.c.Read.Len() == 0 {
			return 0, err
		}
	}
	n := copy(p, r.c.Read.Bytes())
	r.c.Read.PullHead(n)
	return n, nil
}
