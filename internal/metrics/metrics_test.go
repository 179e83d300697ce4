package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	m := New("crm-test")

	m.ProspectCreated("trade_show")
	m.ProspectCreated("trade_show")
	m.ProspectCreated("other")
	m.ProductCreated()
	m.LinksCreated(3)
	m.LinksCreated(0)
	m.Conflict("prospect")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prospectsCreated.WithLabelValues("trade_show")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prospectsCreated.WithLabelValues("other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.productsCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.links))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("prospect")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ProspectCreated("other")
		m.ProductCreated()
		m.LinksCreated(2)
		m.Conflict("product")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New("crm-test")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/9", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/products/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusCategories.WithLabelValues("4xx")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "http_requests_total"))
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", statusCategory(201))
	assert.Equal(t, "4xx", statusCategory(422))
	assert.Equal(t, "5xx", statusCategory(500))
	assert.Equal(t, "", statusCategory(302))
}
