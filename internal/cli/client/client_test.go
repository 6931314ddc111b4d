package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselog-dev/baselog/internal/notice"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type fakeLoader struct {
	token string
	err   error
	calls int
}

func (f *fakeLoader) LoadToken() (string, error) {
	f.calls++
	return f.token, f.err
}

// echoServer answers with the Authorization header it saw.
func echoServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{
			"authorization": r.Header.Get("Authorization"),
			"error":         http.StatusText(status),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func seenAuthorization(t *testing.T, c *Client) string {
	t.Helper()
	var out struct {
		Authorization string `json:"authorization"`
	}
	require.NoError(t, c.do(context.Background(), call{method: http.MethodGet, path: "/echo", out: &out}))
	return out.Authorization
}

func TestBearerToken_PrefersInMemoryToken(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	loader := &fakeLoader{token: "stored"}
	c := New(srv.URL, WithMiddleware(BearerToken(staticToken("memory"), loader)))

	assert.Equal(t, "Bearer memory", seenAuthorization(t, c))
	assert.Zero(t, loader.calls, "durable storage should not be read when memory has a token")
}

func TestBearerToken_FallsBackToDurableStorage(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	stored := "eyJhbGciOiJIUzI1NiJ9.e30.abc-_=="
	c := New(srv.URL, WithMiddleware(BearerToken(staticToken(""), &fakeLoader{token: stored})))

	assert.Equal(t, "Bearer "+stored, seenAuthorization(t, c))
}

func TestBearerToken_NoTokenProceedsUnauthenticated(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	loader := &fakeLoader{err: errors.New("not authenticated")}
	c := New(srv.URL, WithMiddleware(BearerToken(staticToken(""), loader)))

	assert.Empty(t, seenAuthorization(t, c))
	assert.Equal(t, 1, loader.calls)
}

func TestBearerToken_KeepsExplicitCredential(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	c := New(srv.URL, WithMiddleware(BearerToken(staticToken("memory"), nil)))

	var out struct {
		Authorization string `json:"authorization"`
	}
	err := c.do(context.Background(), call{method: http.MethodGet, path: "/echo", out: &out, token: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer explicit", out.Authorization)
}

func TestSignOutOnUnauthorized_WithToken(t *testing.T) {
	srv := echoServer(t, http.StatusUnauthorized)
	var rec notice.Recorder
	var signOuts atomic.Int32

	c := New(srv.URL, WithMiddleware(
		BearerToken(staticToken("expired"), nil),
		SignOutOnUnauthorized(func(ctx context.Context) { signOuts.Add(1) }, &rec),
	))

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.EqualValues(t, 1, signOuts.Load())
	assert.Equal(t, 1, rec.Count(SessionExpiredNotice))
}

func TestSignOutOnUnauthorized_WithoutToken(t *testing.T) {
	srv := echoServer(t, http.StatusUnauthorized)
	var rec notice.Recorder
	called := false

	c := New(srv.URL, WithMiddleware(
		BearerToken(staticToken(""), &fakeLoader{}),
		SignOutOnUnauthorized(func(ctx context.Context) { called = true }, &rec),
	))

	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called)
	assert.Empty(t, rec.Notices())
}

func TestSignOutOnUnauthorized_OtherFailuresPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := echoServer(t, status)
			called := false
			c := New(srv.URL, WithMiddleware(
				BearerToken(staticToken("valid"), nil),
				SignOutOnUnauthorized(func(ctx context.Context) { called = true }, nil),
			))

			_, err := c.ListProducts(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, status, apiErr.StatusCode)
			assert.False(t, called)
		})
	}
}

func TestSignOutOnUnauthorized_NetworkError(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	called := false
	c := New(url, WithMiddleware(
		BearerToken(staticToken("valid"), nil),
		SignOutOnUnauthorized(func(ctx context.Context) { called = true }, nil),
	))

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
	assert.False(t, called)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: r}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	_, err := Chain(base, mw("first"), mw("second")).RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "base"}, order)
}

func TestLogging_OmitsToken(t *testing.T) {
	srv := echoServer(t, http.StatusOK)
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c := New(srv.URL, WithMiddleware(BearerToken(staticToken("secret-token"), nil), Logging(log)))
	seenAuthorization(t, c)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "API request", line["message"])
	assert.Equal(t, "/echo", line["path"])
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.Equal(t, true, line["authenticated"])
	assert.NotContains(t, buf.String(), "secret-token")
}
