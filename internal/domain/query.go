package domain

import (
	"net/url"
	"strings"
)

// QueryParam is a single key/value pair of a query string.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order, so derived URLs are deterministic (w before h before fit).
type Query []QueryParam

// ParseQuery parses a raw query string. Pairs that fail to unescape are kept
// verbatim.
func ParseQuery(raw string) Query {
	var q Query

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")

		q = append(q, QueryParam{Key: unescape(key), Value: unescape(value)})
	}

	return q
}

// Get returns the value of the first parameter named key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Set returns a copy of q with key set to value. An existing parameter keeps
// its position, a new one is appended.
func (q Query) Set(key, value string) Query {
	out := make(Query, 0, len(q)+1)
	found := false

	for _, p := range q {
		if p.Key != key {
			out = append(out, p)

			continue
		}

		if !found {
			out = append(out, QueryParam{Key: key, Value: value})
			found = true
		}
	}

	if !found {
		out = append(out, QueryParam{Key: key, Value: value})
	}

	return out
}

// Del returns a copy of q without any parameter named key.
func (q Query) Del(key string) Query {
	out := make(Query, 0, len(q))

	for _, p := range q {
		if p.Key != key {
			out = append(out, p)
		}
	}

	return out
}

// Encode percent-encodes the query in order. Commas stay literal, matching
// how the host writes list values such as auto=format,compress.
func (q Query) Encode() string {
	parts := make([]string, 0, len(q))

	for _, p := range q {
		parts = append(parts, escape(p.Key)+"="+escape(p.Value))
	}

	return strings.Join(parts, "&")
}

// AddQueryArgs sets every parameter of args on rawURL, replacing parameters
// of the same name in place and appending the rest.
func AddQueryArgs(rawURL string, args Query) string {
	base, query, fragment := splitURL(rawURL)

	q := ParseQuery(query)
	for _, p := range args {
		q = q.Set(p.Key, p.Value)
	}

	return joinURL(base, q, fragment)
}

// RemoveQueryArg drops every parameter named key from rawURL.
func RemoveQueryArg(rawURL, key string) string {
	base, query, fragment := splitURL(rawURL)

	return joinURL(base, ParseQuery(query).Del(key), fragment)
}

func splitURL(rawURL string) (base, query, fragment string) {
	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	if hasFragment {
		fragment = "#" + fragment
	}

	base, query, _ = strings.Cut(base, "?")

	return base, query, fragment
}

func joinURL(base string, q Query, fragment string) string {
	if len(q) > 0 {
		base += "?" + q.Encode()
	}

	return base + fragment
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2C", ",")
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}

	return s
}
