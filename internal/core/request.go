package core

import (
	"fmt"
	"net/url"
	"strings"
)

// CacheKey names a remote resource in the cache.
// The same key is used to fetch the resource and to invalidate it.
type CacheKey string

// Method is an HTTP verb supported by the backend.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod validates an HTTP verb. An empty string means GET.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return MethodGet, nil
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported method %q", s)
	}
}

// Request describes one call to the backend.
// URL is relative to the backend base URL; Params become the query string.
type Request struct {
	Method Method
	URL    string
	Params url.Values
}

// String renders the request for logs, e.g. "POST /api/shift/toggleAdmin?id=1".
func (r Request) String() string {
	m := r.Method
	if m == "" {
		m = MethodGet
	}
	if len(r.Params) == 0 {
		return string(m) + " " + r.URL
	}
	return string(m) + " " + r.URL + "?" + r.Params.Encode()
}
