package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/alex-pricope/campaign-voting/api/models"
	"github.com/alex-pricope/campaign-voting/api/transport"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/alex-pricope/campaign-voting/storage"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
)

// searchDistance is how many edits a name query may be off by.
const searchDistance = 2

type CandidateMetaController struct {
	storage storage.CandidateStorage
}

func NewCandidateMetaController(s storage.CandidateStorage) *CandidateMetaController {
	return &CandidateMetaController{storage: s}
}

func (c *CandidateMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/candidates")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary List candidates, optionally filtered by a fuzzy name query
// @Tags Meta/Candidates
// @Produce json
// @Param q query string false "Name query"
// @Success 200 {array} models.CandidateResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [get]
func (c *CandidateMetaController) getAll(g *gin.Context) {
	candidates, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	if q := g.Query("q"); q != "" {
		candidates = storage.SearchCandidates(candidates, q, searchDistance)
	}

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, models.TransformCandidateFromStorage(candidate))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a candidate by ID
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [get]
func (c *CandidateMetaController) get(g *gin.Context) {
	candidate, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "candidate not found"})
			return
		}
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Create a candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param candidate body models.CandidateCreateRequest true "Candidate object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [post]
func (c *CandidateMetaController) create(g *gin.Context) {
	var req models.CandidateCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create candidate request: %v", err)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request empty name"})
		return
	}

	if req.ID == "" {
		id, err := gonanoid.Generate(models.Alphabet, models.IDLength)
		if err != nil {
			logging.Log.Errorf("META: failed to generate candidate id: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not generate id"})
			return
		}
		req.ID = id
	}

	candidate := &storage.Candidate{
		ID:             req.ID,
		Name:           req.Name,
		Nationality:    req.Nationality,
		ProfilePicture: req.ProfilePicture,
		CreatedAt:      time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "candidate with ID already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create candidate: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	logging.Log.Infof("META: created candidate %s", candidate.ID)
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Update a candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param candidate body models.CandidateUpdateRequest true "Candidate update object"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [put]
func (c *CandidateMetaController) update(g *gin.Context) {
	var req models.CandidateUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update candidate request: %v", err)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request empty name"})
		return
	}

	existing, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "candidate not found"})
			return
		}
		logging.Log.Errorf("META: failed to load candidate for update: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	existing.Name = req.Name
	existing.Nationality = req.Nationality
	existing.ProfilePicture = req.ProfilePicture

	if err := c.storage.Update(g.Request.Context(), existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "candidate not found"})
			return
		}
		logging.Log.Errorf("META: failed to update candidate: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(existing))
}

// @Security AdminToken
// @Summary Delete a candidate
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [delete]
func (c *CandidateMetaController) delete(g *gin.Context) {
	if err := c.storage.Delete(g.Request.Context(), g.Param("id")); err != nil {
		logging.Log.Errorf("META: failed to delete candidate: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "candidate deleted"})
}
