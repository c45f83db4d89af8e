package controllers

import (
	"net/http"
	"testing"

	testutils "github.com/alex-pricope/campaign-voting/api/controllers/testing"
	"github.com/alex-pricope/campaign-voting/api/models"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/alex-pricope/campaign-voting/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCouponTestController(t *testing.T) *gin.Engine {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testutils.AdminToken)

	controller := NewCouponMetaController(storage.NewMemoryCouponStorage())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)
	return r
}

func TestCouponLifecycle(t *testing.T) {
	router := setupCouponTestController(t)

	t.Run("Create", func(t *testing.T) {
		payload := models.CouponCreateRequest{ID: "gold", Name: "Gold Pack", Votes: 10, EligibleCandidateCounts: 2, Pricing: 5}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/coupons", payload, testutils.AdminHeaders)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		created, err := testutils.Decode[models.CouponResponse](res)
		require.NoError(t, err)
		assert.Equal(t, 10, created.Votes)
		assert.Equal(t, 2, created.EligibleCandidateCounts)
	})

	t.Run("Create duplicate", func(t *testing.T) {
		payload := models.CouponCreateRequest{ID: "gold", Name: "Again", Votes: 1, EligibleCandidateCounts: 1}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/coupons", payload, testutils.AdminHeaders)
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("Create with negative votes", func(t *testing.T) {
		payload := models.CouponCreateRequest{Name: "Broken", Votes: -1, EligibleCandidateCounts: 1}
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/coupons", payload, testutils.AdminHeaders)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Create without name", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/coupons", `{"id":"nameless","votes":3,"eligibleCandidateCounts":1}`, testutils.AdminHeaders)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("List", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/coupons", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		all, err := testutils.Decode[[]models.CouponResponse](res)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Gold Pack", all[0].Name)
	})

	t.Run("Update", func(t *testing.T) {
		payload := models.CouponUpdateRequest{Name: "Gold Pack+", Votes: 20, EligibleCandidateCounts: 3, Pricing: 9}
		res := testutils.PerformRequest(router, http.MethodPut, "/api/meta/coupons/gold", payload, testutils.AdminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/coupons/gold", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		got, err := testutils.Decode[models.CouponResponse](res)
		require.NoError(t, err)
		assert.Equal(t, 20, got.Votes)
		assert.Equal(t, 3, got.EligibleCandidateCounts)
	})

	t.Run("Update without token", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPut, "/api/meta/coupons/gold", models.CouponUpdateRequest{Name: "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodDelete, "/api/meta/coupons/gold", nil, testutils.AdminHeaders)
		assert.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/coupons/gold", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
