package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/observability/metrics"
	"github.com/innovatun/console/internal/records"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrUnavailable   = errors.New("upstream_unavailable")
	ErrMalformedBody = errors.New("upstream_malformed_body")
)

// Client talks to the remote ERP API. Responses are loosely typed; callers
// normalize through the records package. No retries: a failed call surfaces
// once and the caller picks the fallback path.
type Client interface {
	Subscriptions(ctx context.Context) ([]records.RawRecord, error)
	SubscriptionsByEmail(ctx context.Context, email string) ([]records.RawRecord, error)
	Customers(ctx context.Context) ([]records.RawRecord, error)
	SessionData(ctx context.Context, sessionID string) (records.RawRecord, error)
	CreateSubscription(ctx context.Context, payload map[string]any) error
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(p Params) Client {
	timeout := p.Config.Upstream.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &client{
		baseURL: strings.TrimRight(strings.TrimSpace(p.Config.Upstream.BaseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		log:     p.Log.Named("upstream.client"),
		metrics: p.Metrics,
	}
}

func (c *client) Subscriptions(ctx context.Context) ([]records.RawRecord, error) {
	return c.collection(ctx, "/subscriptions", "subscriptions")
}

func (c *client) SubscriptionsByEmail(ctx context.Context, email string) ([]records.RawRecord, error) {
	return c.collection(ctx, "/subscriptions/"+url.PathEscape(strings.TrimSpace(email)), "subscriptions")
}

func (c *client) Customers(ctx context.Context) ([]records.RawRecord, error) {
	return c.collection(ctx, "/customers", "customers")
}

func (c *client) SessionData(ctx context.Context, sessionID string) (records.RawRecord, error) {
	body, err := c.get(ctx, "/get-session-data/"+url.PathEscape(strings.TrimSpace(sessionID)), "session")
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if session, ok := decoded["session"].(map[string]any); ok {
		return records.RawRecord(session), nil
	}
	return records.RawRecord(decoded), nil
}

// CreateSubscription posts one checkout-success row to the upstream.
func (c *client) CreateSubscription(ctx context.Context, payload map[string]any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/subscriptions", bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, "subscriptions_create", "error")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.record(ctx, "subscriptions_create", "error")
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	c.record(ctx, "subscriptions_create", "ok")
	return nil
}

func (c *client) collection(ctx context.Context, path, name string) ([]records.RawRecord, error) {
	body, err := c.get(ctx, path, name)
	if err != nil {
		return nil, err
	}
	rows, err := DecodeCollection(body, name)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *client) get(ctx context.Context, path, collection string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, collection, "error")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.record(ctx, collection, "error")
		c.log.Warn("upstream call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		c.record(ctx, collection, "error")
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	c.record(ctx, collection, "ok")
	return buf.Bytes(), nil
}

func (c *client) record(ctx context.Context, collection, outcome string) {
	c.metrics.RecordUpstreamFetch(ctx, collection, outcome)
}

// DecodeCollection accepts a bare JSON array or the wrapped form
// {"success": bool, "<collection>": [...]}. Wrapped bodies are probed under
// the collection name and the common fallback keys.
func DecodeCollection(body []byte, collection string) ([]records.RawRecord, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	switch typed := decoded.(type) {
	case []any:
		return toRawRecords(typed), nil
	case map[string]any:
		for _, key := range []string{collection, "data", "subscriptions", "customers", "users", "records"} {
			if items, ok := typed[key].([]any); ok {
				return toRawRecords(items), nil
			}
		}
		// Wrapped body without the expected array is an empty collection.
		return []records.RawRecord{}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected top-level shape", ErrMalformedBody)
	}
}

func toRawRecords(items []any) []records.RawRecord {
	out := make([]records.RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, records.RawRecord(m))
		}
	}
	return out
}
