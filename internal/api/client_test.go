package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type captured struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

func recorder(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.header = r.Header.Clone()
		got.body = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestDoAddsBearerAndContentType(t *testing.T) {
	srv, got := recorder(t, http.StatusOK, `{}`)
	c := New(srv.URL+"/", staticToken("tok-123"))

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/doctor",
		Body:   map[string]string{"name": "Ann"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/doctor", got.path)
	assert.Equal(t, "Bearer tok-123", got.header.Get("Authorization"))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.NotEmpty(t, got.header.Get("X-Request-ID"))
	assert.JSONEq(t, `{"name":"Ann"}`, got.body)
}

func TestDoWithoutTokenIsUnauthenticated(t *testing.T) {
	srv, got := recorder(t, http.StatusOK, `{}`)
	c := New(srv.URL, staticToken(""))

	resp, err := c.Do(context.Background(), Request{Path: "/doctor"})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.MethodGet, got.method)
	assert.Empty(t, got.header.Get("Authorization"))
	assert.Empty(t, got.header.Get("Content-Type"), "no body means no content type")
}

func TestDoKeepsCallerContentType(t *testing.T) {
	srv, got := recorder(t, http.StatusOK, `{}`)
	c := New(srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/upload",
		Body:   []byte("raw"),
		Header: http.Header{"Content-Type": []string{"text/plain"}},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "text/plain", got.header.Get("Content-Type"))
	assert.Equal(t, "raw", got.body)
}

func TestDoReturnsNonOKUninterpreted(t *testing.T) {
	srv, _ := recorder(t, http.StatusUnauthorized, `{"message":"nope"}`)
	c := New(srv.URL, nil)

	resp, err := c.Do(context.Background(), Request{Path: "/doctor"})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDoTransportError(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `{}`)
	srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Do(context.Background(), Request{Path: "/doctor"})
	assert.Error(t, err)
}

func TestJSONDecodesAnyStatus(t *testing.T) {
	srv, got := recorder(t, http.StatusBadRequest, `{"message":"Email already exists"}`)
	c := New(srv.URL, nil)

	var body struct {
		Message string `json:"message"`
	}
	status, err := c.JSON(context.Background(), Request{
		Path:  "/appointments",
		Query: url.Values{"date": {"2024-03-01"}, "patientName": {"null"}},
	}, &body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, OK(status))
	assert.Equal(t, "Email already exists", body.Message)
	assert.Equal(t, "null", got.query.Get("patientName"))
}

func TestJSONDecodeError(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `<html>`)
	c := New(srv.URL, nil)

	var out map[string]interface{}
	status, err := c.JSON(context.Background(), Request{Path: "/doctor"}, &out)
	assert.Equal(t, http.StatusOK, status)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestTimeoutAndRateLimitOptions(t *testing.T) {
	c := New("http://localhost", nil, WithTimeout(3*time.Second), WithRateLimit(0, 0))
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.Nil(t, c.limiter)

	c = New("http://localhost", nil, WithRateLimit(2, 0))
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

func TestRateLimitHonorsContext(t *testing.T) {
	srv, _ := recorder(t, http.StatusOK, `{}`)
	c := New(srv.URL, nil, WithRateLimit(0.001, 1))

	resp, err := c.Do(context.Background(), Request{Path: "/doctor"})
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Do(ctx, Request{Path: "/doctor"})
	assert.Error(t, err, "second call should be throttled past the deadline")
}
