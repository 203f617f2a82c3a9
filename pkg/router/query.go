package router

import (
	"net/url"
	"sort"
	"strings"
)

// componentFixer undoes url.QueryEscape where it differs from
// encodeURIComponent.
var componentFixer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way browsers encode a URI component.
func EncodeComponent(s string) string {
	return componentFixer.Replace(url.QueryEscape(s))
}

// decodeComponent percent-decodes s, returning it unchanged when malformed.
func decodeComponent(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}

// EncodeQuery serializes q as key=value pairs joined by "&", keys sorted.
func EncodeQuery(q Query) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = EncodeComponent(k) + "=" + EncodeComponent(q[k])
	}
	return strings.Join(pairs, "&")
}

// ParseQuery splits raw on "&" and then on the first "=". Later keys
// overwrite earlier ones.
func ParseQuery(raw string) Query {
	q := make(Query)
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return q
	}
	for _, pair := range strings.Split(raw, "&") {
		key, value, _ := strings.Cut(pair, "=")
		q[decodeComponent(key)] = decodeComponent(value)
	}
	return q
}

// BuildFragment joins path and the encoded query.
func BuildFragment(path string, q Query) string {
	if qs := EncodeQuery(q); qs != "" {
		return path + "?" + qs
	}
	return path
}

// SplitFragment separates a fragment into path and raw query. The leading
// "#" is optional; an empty path means "/".
func SplitFragment(fragment string) (path, rawQuery string) {
	fragment = strings.TrimPrefix(fragment, "#")
	path, rawQuery, _ = strings.Cut(fragment, "?")
	if path == "" {
		path = "/"
	}
	return path, rawQuery
}
