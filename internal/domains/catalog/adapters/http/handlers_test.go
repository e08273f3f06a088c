package cataloghttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/application"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := application.NewService(memory.NewRepository())
	require.NoError(t, svc.Seed(context.Background(), application.DefaultSeed()))
	router := gin.New()
	NewAPI(svc).Register(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetStock(t *testing.T) {
	rec := get(newTestRouter(t), "/stock/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"amount":5}`, rec.Body.String())
}

func TestGetProduct_PriceIsNumeric(t *testing.T) {
	rec := get(newTestRouter(t), "/products/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, 179.9, body["price"])
}

func TestGetProduct_MissingIsProblem(t *testing.T) {
	rec := get(newTestRouter(t), "/products/404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeNotFound, problem.Type)
}

func TestGetStock_InvalidID(t *testing.T) {
	rec := get(newTestRouter(t), "/stock/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts(t *testing.T) {
	rec := get(newTestRouter(t), "/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, len(application.DefaultSeed()))
}
