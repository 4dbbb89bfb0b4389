package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/gcopen/cheetah/core/address"
	"github.com/gcopen/cheetah/core/tabular"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
)

// FilenameColumn is the activity list column holding activity file names.
const FilenameColumn = "filename"

// ActivityQuery filters the activity list of an athlete.
type ActivityQuery struct {
	Since     string // yyyy/mm/dd, passed through
	Before    string // yyyy/mm/dd, passed through
	Metrics   []string
	Metadata  []string
	Intervals bool

	// FilenamesOnly drops metrics and metadata and keeps only the filename column.
	FilenamesOnly bool

	// Columns projects the decoded table. Empty keeps every column.
	Columns []string
}

// ZoneQuery selects a zone table. Empty fields take the service defaults.
type ZoneQuery struct {
	For   string
	Sport string
}

// MeanMaxQuery selects a mean-max curve. Exactly one of ActivityFilename or
// the Since and Before pair must be set.
type MeanMaxQuery struct {
	Series           string
	ActivityFilename string
	Since            string
	Before           string
}

// ByActivity reports whether the query targets a single activity.
func (q MeanMaxQuery) ByActivity() bool {
	return q.ActivityFilename != ""
}

// Validate enforces the two request shapes.
func (q MeanMaxQuery) Validate() error {
	hasActivity := q.ActivityFilename != ""
	hasSince, hasBefore := q.Since != "", q.Before != ""
	switch {
	case hasActivity && !hasSince && !hasBefore:
		return nil
	case !hasActivity && hasSince && hasBefore:
		return nil
	default:
		return fmt.Errorf("%w: meanmax needs either an activity filename or both since and before", ErrInvalidRequestShape)
	}
}

// ActivityPayload is one activity. Table is set for csv, Raw for every other format.
type ActivityPayload struct {
	Format schema.ActivityFormat
	Table  *schema.Table
	Raw    contract.Response
}

// clientOptions collects NewClient options.
type clientOptions struct {
	healthCheck bool
}

// ClientOption configures NewClient.
type ClientOption func(*clientOptions)

// WithHealthCheck probes the service once while constructing the client.
func WithHealthCheck() ClientOption {
	return func(o *clientOptions) { o.healthCheck = true }
}

// Client reads resources from the fitness-data service. Each client owns its
// athlete registry.
type Client struct {
	transport contract.Transport
	resolver  *address.Resolver
	registry  *Registry
}

// NewClient creates a client. The roster is not fetched until the first call
// that needs it.
func NewClient(ctx context.Context, transport contract.Transport, resolver *address.Resolver, opts ...ClientOption) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{transport: transport, resolver: resolver}
	c.registry = NewRegistry(c.fetchRoster)

	if o.healthCheck {
		if err := c.CheckHealth(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewClientFromConfig wires an HTTP client from validated configuration.
func NewClientFromConfig(ctx context.Context, cfg *contract.Config, userAgent string) (*Client, error) {
	resolver, err := address.NewResolver(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	var opts []ClientOption
	if cfg.HealthCheck {
		opts = append(opts, WithHealthCheck())
	}
	return NewClient(ctx, contract.NewHTTPTransport(cfg.Timeout, userAgent), resolver, opts...)
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.resolver.Base() }

// Registry returns the client's athlete registry.
func (c *Client) Registry() *Registry { return c.registry }

// CheckHealth probes the base address. Any transport error or non-2xx status
// is ErrServiceUnavailable.
func (c *Client) CheckHealth(ctx context.Context) error {
	resp, err := c.transport.Get(ctx, c.resolver.Base(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v. Start the service and enable its API", ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d. Start the service and enable its API", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Athletes returns the athlete ids of the roster.
func (c *Client) Athletes(ctx context.Context) ([]string, error) {
	return c.registry.Athletes(ctx)
}

// Roster returns the full roster table.
func (c *Client) Roster(ctx context.Context) (*schema.Table, error) {
	return c.fetchTable(ctx, address.Roster, nil, nil)
}

// AthleteSummary returns the per-activity summary of an athlete.
func (c *Client) AthleteSummary(ctx context.Context, athlete string) (*schema.Table, error) {
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	return c.fetchTable(ctx, address.AthleteSummary, athletePlaceholder(athlete), nil)
}

// Activities returns the activity list of an athlete.
func (c *Client) Activities(ctx context.Context, athlete string, q ActivityQuery) (*schema.Table, error) {
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	if q.FilenamesOnly {
		q.Metrics = nil
		q.Metadata = nil
		q.Columns = []string{FilenameColumn}
	}

	params := address.Params{
		"since":     q.Since,
		"before":    q.Before,
		"metrics":   q.Metrics,
		"metadata":  q.Metadata,
		"intervals": q.Intervals,
	}
	table, err := c.fetchTable(ctx, address.AthleteSummary, athletePlaceholder(athlete), params)
	if err != nil {
		return nil, err
	}
	if len(q.Columns) == 0 {
		return table, nil
	}
	return table.Select(q.Columns...)
}

// ActivityFilenames returns only the activity file names of an athlete.
func (c *Client) ActivityFilenames(ctx context.Context, athlete, since, before string) ([]string, error) {
	table, err := c.Activities(ctx, athlete, ActivityQuery{Since: since, Before: before, FilenamesOnly: true})
	if err != nil {
		return nil, err
	}
	values, _ := table.Column(FilenameColumn)
	names := make([]string, 0, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			names = append(names, v.String())
		}
	}
	return names, nil
}

// MeasureGroups returns the measure group names of an athlete.
func (c *Client) MeasureGroups(ctx context.Context, athlete string) ([]string, error) {
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	resp, err := c.fetch(ctx, address.MeasureGroups, athletePlaceholder(athlete), nil)
	if err != nil {
		return nil, err
	}
	var groups []string
	for line := range strings.SplitSeq(resp.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			groups = append(groups, line)
		}
	}
	return groups, nil
}

// Measures returns the measures of one group.
func (c *Client) Measures(ctx context.Context, athlete, group, since, before string) (*schema.Table, error) {
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	placeholders := map[string]string{address.AthleteName: athlete, address.MeasureGroup: group}
	return c.fetchTable(ctx, address.Measures, placeholders, address.Params{"since": since, "before": before})
}

// Zones returns the zone table for a measurement type and sport.
func (c *Client) Zones(ctx context.Context, athlete string, q ZoneQuery) (*schema.Table, error) {
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	if q.For == "" {
		q.For = contract.DefaultZonesFor
	}
	if q.Sport == "" {
		q.Sport = contract.DefaultSport
	}
	return c.fetchTable(ctx, address.Zones, athletePlaceholder(athlete), address.Params{"for": q.For, "Sport": q.Sport})
}

// MeanMax returns a mean-max curve for one activity or a date range. The
// request shape is checked before anything else.
func (c *Client) MeanMax(ctx context.Context, athlete string, q MeanMaxQuery) (*schema.Table, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}
	if q.ByActivity() {
		placeholders := map[string]string{address.AthleteName: athlete, address.ActivityFilename: q.ActivityFilename}
		return c.fetchTable(ctx, address.MeanMaxActivity, placeholders, address.Params{"series": q.Series})
	}
	params := address.Params{"series": q.Series, "since": q.Since, "before": q.Before}
	return c.fetchTable(ctx, address.MeanMaxRange, athletePlaceholder(athlete), params)
}

// Activity returns one activity. The csv format is decoded, others are
// returned as received.
func (c *Client) Activity(ctx context.Context, athlete, filename string, format schema.ActivityFormat) (*ActivityPayload, error) {
	if format == "" {
		format = schema.CSVFormat
	}
	if _, ok := schema.ValidActivityFormats[format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := c.registry.Validate(ctx, athlete); err != nil {
		return nil, err
	}

	placeholders := map[string]string{address.AthleteName: athlete, address.ActivityFilename: filename}
	resp, err := c.fetch(ctx, address.Activity, placeholders, address.Params{"format": string(format)})
	if err != nil {
		return nil, err
	}
	payload := &ActivityPayload{Format: format, Raw: resp}
	if format == schema.CSVFormat {
		table, err := tabular.DecodeDelimited(resp.Text, ',')
		if err != nil {
			return nil, fmt.Errorf("decode activity %s: %w", filename, err)
		}
		payload.Table = table
	}
	return payload, nil
}

func (c *Client) fetchRoster(ctx context.Context) ([]string, error) {
	resp, err := c.fetch(ctx, address.Roster, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return ParseRoster(resp.Text), nil
}

func (c *Client) fetch(ctx context.Context, kind address.Kind, placeholders map[string]string, params address.Params) (contract.Response, error) {
	addr, err := c.resolver.Resolve(kind, placeholders, params)
	if err != nil {
		return contract.Response{}, err
	}
	resp, err := c.transport.Get(ctx, addr.URL, addr.Query)
	if err != nil {
		return contract.Response{}, fmt.Errorf("fetch %s: %w", kind, err)
	}
	if !resp.OK() {
		return contract.Response{}, &StatusError{URL: addr.String(), StatusCode: resp.StatusCode, Body: resp.Text}
	}
	return resp, nil
}

func (c *Client) fetchTable(ctx context.Context, kind address.Kind, placeholders map[string]string, params address.Params) (*schema.Table, error) {
	resp, err := c.fetch(ctx, kind, placeholders, params)
	if err != nil {
		return nil, err
	}
	table, err := tabular.DecodeDelimited(resp.Text, ',')
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return table, nil
}

func athletePlaceholder(athlete string) map[string]string {
	return map[string]string{address.AthleteName: athlete}
}
