package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Invalid email or password"}`))
			return
		}
		json.NewEncoder(w).Encode(LoginResponse{ID: "u1", AccessToken: "tok", Email: creds.Email, Role: RoleAdmin})
	}))
	defer srv.Close()

	c := New(srv.URL + "/")

	resp, err := c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, RoleAdmin, resp.Role)

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestResourcePathsAndMethods(t *testing.T) {
	type seen struct{ method, path, query string }
	var got []seen

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, seen{r.Method, r.URL.EscapedPath(), r.URL.RawQuery})
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/reports/average-ticket":
			w.Write([]byte(`{"average": 59.98, "count": 2}`))
		case r.URL.Path == "/reports/sales-breakdown":
			w.Write([]byte(`{"buckets": [{"label": "Saco de 5Kg", "value": 100, "percentage": 100}]}`))
		case r.Method == http.MethodGet && (r.URL.Path == "/products" || r.URL.Path == "/sales/users/u 1"):
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{"id": "x"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.ListProducts(ctx)
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, ProductInput{Name: "n", Price: 1})
	require.NoError(t, err)
	_, err = c.UpdateProduct(ctx, "p1", ProductInput{Name: "n", Price: 1})
	require.NoError(t, err)
	require.NoError(t, c.DeleteProduct(ctx, "p1"))
	_, err = c.ListSalesByUser(ctx, "u 1")
	require.NoError(t, err)

	avg, err := c.AverageTicket(ctx, DateRange{From: "2021-09-01", To: "2021-09-30"})
	require.NoError(t, err)
	assert.InDelta(t, 59.98, avg.Average, 0.001)

	b, err := c.SalesBreakdown(ctx, DateRange{})
	require.NoError(t, err)
	require.Len(t, b.Buckets, 1)

	assert.Equal(t, []seen{
		{http.MethodGet, "/products", ""},
		{http.MethodPost, "/products", ""},
		{http.MethodPut, "/products/p1", ""},
		{http.MethodDelete, "/products/p1", ""},
		{http.MethodGet, "/sales/users/u%201", ""},
		{http.MethodGet, "/reports/average-ticket", "from=2021-09-01&to=2021-09-30"},
		{http.MethodGet, "/reports/sales-breakdown", ""},
	}, got)
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
	}
	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		assert.ErrorIs(t, err, tt.target)
		assert.NotErrorIs(t, &APIError{StatusCode: http.StatusInternalServerError}, tt.target)
	}
}
