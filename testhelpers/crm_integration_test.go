package testhelpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"spinecrm/internal/common"
	"spinecrm/internal/handlers"
	"spinecrm/internal/models"
	"spinecrm/internal/services"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(db *TestDB) *echo.Echo {
	e := echo.New()
	e.Validator = common.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler()
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	handlers.RegisterRoutes(e,
		handlers.NewProductHandlers(services.NewProductService(db.Pool, nil)),
		handlers.NewProspectHandlers(services.NewProspectService(db.Pool, nil)),
	)
	return e
}

func call(t *testing.T, e *echo.Echo, method, target, body string, out interface{}) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestCRMScenarios(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup()
	e := newServer(db)

	t.Run("product lifecycle", func(t *testing.T) {
		var product models.Product
		code := call(t, e, http.MethodPost, "/api/products/", `{"item_number":"X1","name":"Widget"}`, &product)
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "X1", product.ItemNumber)

		var errResp common.ErrorResponse
		code = call(t, e, http.MethodPost, "/api/products/", `{"item_number":"X1","name":"Other"}`, &errResp)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Product with item number X1 already exists", errResp.Error.Message)

		var updated models.Product
		code = call(t, e, http.MethodPatch, fmt.Sprintf("/api/products/%d", product.ID), `{}`, &updated)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, product.Name, updated.Name)
		assert.True(t, product.UpdatedAt.Equal(updated.UpdatedAt))

		code = call(t, e, http.MethodPatch, fmt.Sprintf("/api/products/%d", product.ID), `{"short_description":"Blue"}`, &updated)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Widget", updated.Name)
		assert.Equal(t, "Blue", *updated.ShortDescription)

		assert.Equal(t, http.StatusNotFound, call(t, e, http.MethodGet, "/api/products/999999", "", nil))
	})

	t.Run("prospect with invalid interest rolls back", func(t *testing.T) {
		code := call(t, e, http.MethodPost, "/api/prospects/",
			`{"first_name":"A","last_name":"B","email":"a@x.io","source":"trade_show","product_interest_ids":[999999]}`, nil)
		assert.Equal(t, http.StatusNotFound, code)

		var prospects []models.Prospect
		require.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/api/prospects/", "", &prospects))
		for _, p := range prospects {
			assert.NotEqual(t, "a@x.io", p.Email)
		}
		assert.Equal(t, 0, CountRows(t, db, "prospect_products"))
	})

	t.Run("prospect linking and cascade", func(t *testing.T) {
		product := SetupTestProduct(t, db, "LINK-1", "Linked")
		second := SetupTestProduct(t, db, "LINK-2", "Also linked")

		var prospect models.Prospect
		code := call(t, e, http.MethodPost, "/api/prospects",
			fmt.Sprintf(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io","source":"other","product_interest_ids":[%d]}`, second.ID), &prospect)
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, models.StatusNew, prospect.Status)

		linkURL := fmt.Sprintf("/api/prospects/%d/products", prospect.ID)
		var msg common.MessageResponse
		assert.Equal(t, http.StatusCreated, call(t, e, http.MethodPost, linkURL, fmt.Sprintf(`{"product_id":%d}`, product.ID), &msg))
		assert.Equal(t, fmt.Sprintf("Prospect with ID %d linked to product with ID %d successfully", prospect.ID, product.ID), msg.Message)
		assert.Equal(t, http.StatusBadRequest, call(t, e, http.MethodPost, linkURL, fmt.Sprintf(`{"product_id":%d}`, product.ID), nil))

		var linked []models.Product
		require.Equal(t, http.StatusOK, call(t, e, http.MethodGet, linkURL, "", &linked))
		require.Len(t, linked, 2)
		assert.Equal(t, second.ID, linked[0].ID)
		assert.Equal(t, product.ID, linked[1].ID)

		var updated models.Prospect
		require.Equal(t, http.StatusOK, call(t, e, http.MethodPatch, fmt.Sprintf("/api/prospects/%d", prospect.ID), `{"status":"contacted"}`, &updated))
		assert.Equal(t, models.StatusContacted, updated.Status)
		assert.Equal(t, "Ada", updated.FirstName)

		var filtered []models.Prospect
		require.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/api/prospects?status=contacted", "", &filtered))
		require.Len(t, filtered, 1)
		assert.Equal(t, prospect.ID, filtered[0].ID)

		assert.Equal(t, http.StatusNoContent, call(t, e, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), "", nil))
		require.Equal(t, http.StatusOK, call(t, e, http.MethodGet, linkURL, "", &linked))
		assert.Len(t, linked, 1)

		assert.Equal(t, http.StatusNoContent, call(t, e, http.MethodDelete, fmt.Sprintf("/api/prospects/%d", prospect.ID), "", nil))
		assert.Equal(t, http.StatusNotFound, call(t, e, http.MethodGet, linkURL, "", nil))
		assert.Equal(t, 0, CountRows(t, db, "prospect_products"))
	})
}

func TestConcurrentCreatesYieldOneConflict(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup()

	productSvc := services.NewProductService(db.Pool, nil)
	prospectSvc := services.NewProspectService(db.Pool, nil)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	productErrs := make([]error, workers)
	prospectErrs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, productErrs[i] = productSvc.Create(ctx, &models.ProductCreate{ItemNumber: "RACE-1", Name: "Race"})
			_, prospectErrs[i] = prospectSvc.Create(ctx, &models.ProspectCreate{
				FirstName: "Race", LastName: "Condition", Email: "race@x.io", Source: models.SourceOther,
			})
		}(i)
	}
	wg.Wait()

	for _, errs := range [][]error{productErrs, prospectErrs} {
		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.True(t, common.IsConflict(err), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, successes)
	}
}
