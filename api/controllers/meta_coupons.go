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

type CouponMetaController struct {
	storage storage.CouponStorage
}

func NewCouponMetaController(s storage.CouponStorage) *CouponMetaController {
	return &CouponMetaController{storage: s}
}

func (c *CouponMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/coupons")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

func validCouponNumbers(votes, eligible int, pricing float64) bool {
	return votes >= 0 && eligible >= 0 && pricing >= 0
}

// @Summary Get all coupons
// @Tags Meta/Coupons
// @Produce json
// @Success 200 {array} models.CouponResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/coupons [get]
func (c *CouponMetaController) getAll(g *gin.Context) {
	coupons, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all coupons: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]models.CouponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		responses = append(responses, models.TransformCouponFromStorage(coupon))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a coupon by ID
// @Tags Meta/Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} models.CouponResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/coupons/{id} [get]
func (c *CouponMetaController) get(g *gin.Context) {
	coupon, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "coupon not found"})
			return
		}
		logging.Log.Errorf("META: failed to get coupon: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCouponFromStorage(coupon))
}

// @Security AdminToken
// @Summary Create a coupon
// @Tags Meta/Coupons
// @Accept json
// @Produce json
// @Param coupon body models.CouponCreateRequest true "Coupon object"
// @Success 200 {object} models.CouponResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/coupons [post]
func (c *CouponMetaController) create(g *gin.Context) {
	var req models.CouponCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create coupon request: %v", err)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request empty name"})
		return
	}
	if !validCouponNumbers(req.Votes, req.EligibleCandidateCounts, req.Pricing) {
		logging.Log.Warnf("META: coupon %q with negative numbers rejected", req.Name)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "votes, eligibleCandidateCounts and pricing must not be negative"})
		return
	}

	if req.ID == "" {
		id, err := gonanoid.Generate(models.Alphabet, models.IDLength)
		if err != nil {
			logging.Log.Errorf("META: failed to generate coupon id: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not generate id"})
			return
		}
		req.ID = id
	}

	coupon := &storage.Coupon{
		ID:                      req.ID,
		Name:                    req.Name,
		Votes:                   req.Votes,
		EligibleCandidateCounts: req.EligibleCandidateCounts,
		Pricing:                 req.Pricing,
		CreatedAt:               time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), coupon); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "coupon with ID already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create coupon: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	logging.Log.Infof("META: created coupon %s (%d votes, %d candidates)", coupon.ID, coupon.Votes, coupon.EligibleCandidateCounts)
	g.JSON(http.StatusOK, models.TransformCouponFromStorage(coupon))
}

// @Security AdminToken
// @Summary Update a coupon
// @Tags Meta/Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param coupon body models.CouponUpdateRequest true "Coupon update object"
// @Success 200 {object} models.CouponResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/coupons/{id} [put]
func (c *CouponMetaController) update(g *gin.Context) {
	var req models.CouponUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update coupon request: %v", err)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request empty name"})
		return
	}
	if !validCouponNumbers(req.Votes, req.EligibleCandidateCounts, req.Pricing) {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "votes, eligibleCandidateCounts and pricing must not be negative"})
		return
	}

	existing, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "coupon not found"})
			return
		}
		logging.Log.Errorf("META: failed to load coupon for update: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	existing.Name = req.Name
	existing.Votes = req.Votes
	existing.EligibleCandidateCounts = req.EligibleCandidateCounts
	existing.Pricing = req.Pricing

	if err := c.storage.Update(g.Request.Context(), existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "coupon not found"})
			return
		}
		logging.Log.Errorf("META: failed to update coupon: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCouponFromStorage(existing))
}

// @Security AdminToken
// @Summary Delete a coupon
// @Tags Meta/Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/coupons/{id} [delete]
func (c *CouponMetaController) delete(g *gin.Context) {
	if err := c.storage.Delete(g.Request.Context(), g.Param("id")); err != nil {
		logging.Log.Errorf("META: failed to delete coupon: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "coupon deleted"})
}
