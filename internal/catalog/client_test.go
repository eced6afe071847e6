package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drstein77/plantcart/internal/logger"
	"github.com/drstein77/plantcart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), &logger.Logger{})
}

func TestGetProducts(t *testing.T) {
	var gotQuery, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"ID": 1, "Name": "Bird's Nest Fern", "Price": 22, "Description": "fern"},
			{"id": "2", "name": "Ctenanthe", "price": 45.5}]`))
	})

	products, err := c.GetProducts(context.Background(), []string{"1", "2"})
	require.NoError(t, err)

	assert.Equal(t, "/product", gotPath)
	assert.Equal(t, "ids=1,2", gotQuery)
	assert.Equal(t, []models.Product{
		{ID: "1", Name: "Bird's Nest Fern", Price: 22, Description: "fern"},
		{ID: "2", Name: "Ctenanthe", Price: 45.5},
	}, products)
}

func TestGetProductsWrongShapeIsEmpty(t *testing.T) {
	for _, body := range []string{`[]`, `{"products": []}`, `null`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		products, err := c.GetProducts(context.Background(), []string{"1"})
		require.NoError(t, err, body)
		assert.Empty(t, products, body)
	}
}

func TestGetProductsErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := c.GetProducts(context.Background(), []string{"1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	})

	t.Run("not json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		})

		_, err := c.GetProducts(context.Background(), []string{"1"})
		assert.ErrorIs(t, err, models.ErrInvalidJSON)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(srv.URL, nil, &logger.Logger{})

		_, err := c.GetProducts(context.Background(), []string{"1"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
