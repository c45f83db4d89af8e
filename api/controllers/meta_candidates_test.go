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

func setupCandidateTestController(t *testing.T) *gin.Engine {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testutils.AdminToken)

	controller := NewCandidateMetaController(storage.NewMemoryCandidateStorage())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)
	return r
}

func createCandidate(t *testing.T, router *gin.Engine, req models.CandidateCreateRequest) models.CandidateResponse {
	t.Helper()
	res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/candidates", req, testutils.AdminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	created, err := testutils.Decode[models.CandidateResponse](res)
	require.NoError(t, err)
	return created
}

func TestCreateCandidate(t *testing.T) {
	router := setupCandidateTestController(t)

	t.Run("Happy path - explicit id", func(t *testing.T) {
		created := createCandidate(t, router, models.CandidateCreateRequest{ID: "cand-1", Name: "Prakash Shah", Nationality: "Nepal", ProfilePicture: "/img/p.png"})
		assert.Equal(t, "cand-1", created.CandidateID)
		assert.Equal(t, "Prakash Shah", created.Candidate.Name)
		assert.Equal(t, "/img/p.png", created.Candidate.ProfilePicture)
	})

	t.Run("Happy path - generated id", func(t *testing.T) {
		created := createCandidate(t, router, models.CandidateCreateRequest{Name: "Maya Lama"})
		assert.Len(t, created.CandidateID, models.IDLength)
	})

	t.Run("Unhappy path - duplicate id", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/candidates", models.CandidateCreateRequest{ID: "cand-1", Name: "Other"}, testutils.AdminHeaders)
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("Unhappy path - empty name", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/candidates", models.CandidateCreateRequest{ID: "x", Name: "  "}, testutils.AdminHeaders)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unhappy path - name missing from body", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/candidates", `{"candidateId":"y","nationality":"Nepal"}`, testutils.AdminHeaders)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates/y", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("Unhappy path - no admin token", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/meta/candidates", models.CandidateCreateRequest{Name: "Nobody"}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestGetCandidates(t *testing.T) {
	router := setupCandidateTestController(t)
	createCandidate(t, router, models.CandidateCreateRequest{ID: "1", Name: "Sabina Karki"})
	createCandidate(t, router, models.CandidateCreateRequest{ID: "2", Name: "Rohan Joshi"})

	t.Run("List all", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		all, err := testutils.Decode[[]models.CandidateResponse](res)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Fuzzy search", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates?q=rohn", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		found, err := testutils.Decode[[]models.CandidateResponse](res)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "2", found[0].CandidateID)
	})

	t.Run("Get one", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates/1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		one, err := testutils.Decode[models.CandidateResponse](res)
		require.NoError(t, err)
		assert.Equal(t, "Sabina Karki", one.Candidate.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates/404", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestUpdateAndDeleteCandidate(t *testing.T) {
	router := setupCandidateTestController(t)
	createCandidate(t, router, models.CandidateCreateRequest{ID: "1", Name: "Old Name"})

	res := testutils.PerformRequest(router, http.MethodPut, "/api/meta/candidates/1", models.CandidateUpdateRequest{Name: "New Name", Nationality: "Bhutan"}, testutils.AdminHeaders)
	require.Equal(t, http.StatusOK, res.Code)
	updated, err := testutils.Decode[models.CandidateResponse](res)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Candidate.Name)
	assert.Equal(t, "Bhutan", updated.Candidate.Nationality)

	res = testutils.PerformRequest(router, http.MethodPut, "/api/meta/candidates/2", models.CandidateUpdateRequest{Name: "Ghost"}, testutils.AdminHeaders)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = testutils.PerformRequest(router, http.MethodDelete, "/api/meta/candidates/1", nil, testutils.AdminHeaders)
	assert.Equal(t, http.StatusOK, res.Code)

	res = testutils.PerformRequest(router, http.MethodGet, "/api/meta/candidates/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
