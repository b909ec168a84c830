package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/innovatun/console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{}
	cfg.Upstream.BaseURL = server.URL
	cfg.Upstream.Timeout = 2 * time.Second

	return New(Params{Config: cfg, Log: zap.NewNop()})
}

func TestSubscriptionsBareArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)
		w.Write([]byte(`[{"email":"a@example.com"},{"email":"b@example.com"}]`))
	}))

	rows, err := c.Subscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a@example.com", rows[0].First("email"))
}

func TestSubscriptionsWrappedObject(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"subscriptions":[{"email":"a@example.com"}]}`))
	}))

	rows, err := c.Subscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSubscriptionsByEmailEscapesPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))

	_, err := c.SubscriptionsByEmail(context.Background(), "a+b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/subscriptions/a+b@example.com", gotPath)
}

func TestNon2xxIsUnavailable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Customers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))

	_, err := c.Subscriptions(context.Background())
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestCreateSubscriptionPostsJSON(t *testing.T) {
	var gotMethod, gotContentType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.CreateSubscription(context.Background(), map[string]any{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
}

func TestSessionDataUnwrapsSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"session":{"id":"cs_123","amount_total":4900}}`))
	}))

	session, err := c.SessionData(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.First("id"))
}

func TestDecodeCollectionShapes(t *testing.T) {
	rows, err := DecodeCollection([]byte(`{"success":true,"data":[{"id":"1"}]}`), "subscriptions")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = DecodeCollection([]byte(`{"success":true}`), "subscriptions")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = DecodeCollection([]byte(`42`), "subscriptions")
	assert.ErrorIs(t, err, ErrMalformedBody)
}
