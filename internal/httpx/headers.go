package httpx

import "strings"

// HeaderList is the request-side header table: it preserves insertion order
// for the wire format while serving case-insensitive lookups, matching the
// ordered name/value list the transaction record carries.
type HeaderList struct {
	kv []headerKV
}

type headerKV struct {
	name  string
	value string
}

// Add appends a header, keeping any existing entries with the same name.
func (h *HeaderList) Add(name, value string) {
	h.kv = append(h.kv, headerKV{name: name, value: value})
}

// Set replaces every existing entry named name with a single new value,
// keeping the first occurrence's position.
func (h *HeaderList) Set(name, value string) {
	out := h.kv[:0]
	replaced := false
	for _, e := range h.kv {
		if strings.EqualFold(e.name, name) {
			if !replaced {
				out = append(out, headerKV{name: name, value: value})
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, headerKV{name: name, value: value})
	}
	h.kv = out
}

// Get returns the first value for name, case-insensitively.
func (h *HeaderList) Get(name string) string {
	for _, e := range h.kv {
		if strings.EqualFold(e.name, name) {
			return e.value
		}
	}
	return ""
}

// Len returns the number of header entries.
func (h *HeaderList) Len() int { return len(h.kv) }

// writeWire appends the headers in insertion order in wire format.
func (h *HeaderList) writeWire(sb *strings.Builder) {
	for _, e := range h.kv {
		sb.WriteString(e.name)
		sb.WriteString(": ")
		sb.WriteString(e.value)
		sb.WriteString("\r\n")
	}
}
