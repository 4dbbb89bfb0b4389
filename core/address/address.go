// Package address resolves resource kinds into request URLs and query parameters.
package address

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// DefaultBaseURL is where the service listens when started locally.
const DefaultBaseURL = "http://localhost:12021"

// Placeholder names used by path templates.
const (
	AthleteName      = "athlete_name"
	MeasureGroup     = "measure_group"
	ActivityFilename = "activity_filename"
)

// Kind names one resource of the service.
type Kind string

// All resource kinds.
const (
	Roster          Kind = "roster"
	AthleteSummary  Kind = "athlete summary"
	MeasureGroups   Kind = "measure groups"
	Measures        Kind = "measures"
	Zones           Kind = "zones"
	MeanMaxActivity Kind = "meanmax by activity"
	MeanMaxRange    Kind = "meanmax by range"
	Activity        Kind = "activity"
)

// Errors for malformed resolve calls.
var (
	ErrUnknownKind         = errors.New("unknown resource kind")
	ErrUnknownPlaceholder  = errors.New("unknown placeholder")
	ErrMissingPlaceholder  = errors.New("missing placeholder")
	ErrUnknownParameter    = errors.New("unknown query parameter")
	ErrUnsupportedArgument = errors.New("unsupported query parameter value")
)

// template is the fixed path and allowed query parameters of one kind.
type template struct {
	path   string
	params []string
}

var templates = map[Kind]template{
	Roster:          {path: "/"},
	AthleteSummary:  {path: "/{athlete_name}", params: []string{"since", "before", "metrics", "metadata", "intervals"}},
	MeasureGroups:   {path: "/{athlete_name}/measures"},
	Measures:        {path: "/{athlete_name}/measures/{measure_group}", params: []string{"since", "before"}},
	Zones:           {path: "/{athlete_name}/zones", params: []string{"for", "Sport"}},
	MeanMaxActivity: {path: "/{athlete_name}/meanmax/{activity_filename}", params: []string{"series"}},
	MeanMaxRange:    {path: "/{athlete_name}/meanmax/bests", params: []string{"series", "since", "before"}},
	Activity:        {path: "/{athlete_name}/activity/{activity_filename}", params: []string{"format"}},
}

// Template returns the path template of a kind.
func Template(kind Kind) (string, bool) {
	t, ok := templates[kind]
	return t.path, ok
}

// Params is the raw query input of a call. Values may be string, []string,
// bool or nil.
type Params map[string]any

// Address is a fully resolved resource identifier.
type Address struct {
	URL   string
	Query url.Values
}

// String returns the URL with its encoded query.
func (a Address) String() string {
	if len(a.Query) == 0 {
		return a.URL
	}
	return a.URL + "?" + a.Query.Encode()
}

// Resolver builds addresses against one base URL.
type Resolver struct {
	base string
}

// NewResolver returns a Resolver for the base URL. An empty base selects
// DefaultBaseURL and a missing scheme defaults to http.
func NewResolver(base string) (*Resolver, error) {
	normalized, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Resolver{base: normalized}, nil
}

// Base returns the normalized base URL.
func (r *Resolver) Base() string { return r.base }

// Resolve substitutes placeholders into the kind's template and normalizes params.
func (r *Resolver) Resolve(kind Kind, placeholders map[string]string, params Params) (Address, error) {
	t, ok := templates[kind]
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	path, err := substitute(t.path, placeholders)
	if err != nil {
		return Address{}, fmt.Errorf("resolve %s: %w", kind, err)
	}

	query, err := normalizeParams(t.params, params)
	if err != nil {
		return Address{}, fmt.Errorf("resolve %s: %w", kind, err)
	}

	return Address{URL: r.base + path, Query: query}, nil
}

// EscapeAthlete escapes an athlete name for use inside a path. Spaces are the
// only characters the service needs escaped.
func EscapeAthlete(name string) string {
	return strings.ReplaceAll(name, " ", "%20")
}

func substitute(path string, placeholders map[string]string) (string, error) {
	used := make(map[string]bool, len(placeholders))
	var b strings.Builder
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[open+1 : open+end]
		value, ok := placeholders[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingPlaceholder, name)
		}
		if name == AthleteName {
			value = EscapeAthlete(value)
		}
		b.WriteString(rest[:open])
		b.WriteString(value)
		used[name] = true
		rest = rest[open+end+1:]
	}

	var extra []string
	for name := range placeholders {
		if !used[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return "", fmt.Errorf("%w: %s", ErrUnknownPlaceholder, strings.Join(extra, ", "))
	}
	return b.String(), nil
}

func normalizeParams(allowed []string, params Params) (url.Values, error) {
	query := url.Values{}
	for name, raw := range params {
		if !slices.Contains(allowed, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		switch v := raw.(type) {
		case nil:
		case string:
			if v != "" {
				query.Set(name, v)
			}
		case []string:
			if len(v) > 0 {
				query.Set(name, strings.Join(v, ","))
			}
		case bool:
			query.Set(name, strconv.FormatBool(v))
		default:
			return nil, fmt.Errorf("%w: %q has type %T", ErrUnsupportedArgument, name, raw)
		}
	}
	return query, nil
}

// parseBaseURL normalizes a configured base address, defaulting the scheme
// and dropping any path, query or fragment.
func parseBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse base url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}
