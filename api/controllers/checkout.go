package controllers

import (
	"net/http"

	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/api/models"
	"github.com/alex-pricope/campaign-voting/checkout"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/alex-pricope/campaign-voting/storage"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CheckoutController struct {
	registry *checkout.Registry
}

func NewCheckoutController(registry *checkout.Registry) *CheckoutController {
	return &CheckoutController{registry: registry}
}

func (c *CheckoutController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/checkout")

	group.POST("", c.open)
	group.GET("/:session", c.view)
	group.POST("/:session/actions", c.dispatch)
	group.POST("/:session/confirm", c.confirm)
	group.DELETE("/:session", c.close)
}

// open godoc
// @Summary Open a checkout for a coupon
// @Description Starts a vote allocation for the coupon over the current candidate list
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body models.OpenCheckoutRequest true "Coupon to buy"
// @Success 200 {object} models.CheckoutResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Coupon not found"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/checkout [post]
func (c *CheckoutController) open(g *gin.Context) {
	var req models.OpenCheckoutRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Warnf("CHECKOUT: invalid open request: %v", err)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "couponId is required"})
		return
	}

	snap, err := c.registry.Open(g.Request.Context(), req.CouponID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "coupon not found"})
		case errors.Is(err, allocation.ErrInvalidCoupon), errors.Is(err, allocation.ErrDuplicateCandidate):
			logging.Log.Errorf("CHECKOUT: catalog data rejected for coupon %s: %v", req.CouponID, err)
			g.JSON(http.StatusUnprocessableEntity, &models.ErrorResponse{Error: err.Error()})
		default:
			logging.Log.Errorf("CHECKOUT: failed to open checkout: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not open checkout"})
		}
		return
	}

	g.JSON(http.StatusOK, models.TransformCheckoutFromState(snap.ID, snap.State))
}

// view godoc
// @Summary Current state of a checkout
// @Tags checkout
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} models.CheckoutResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/checkout/{session} [get]
func (c *CheckoutController) view(g *gin.Context) {
	snap, err := c.registry.View(g.Param("session"))
	if err != nil {
		c.sessionError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformCheckoutFromState(snap.ID, snap.State))
}

// dispatch godoc
// @Summary Apply one allocation action
// @Description select / increment / decrement a candidate or switch payment method. Actions blocked by the vote budget or selection limit are no-ops reported in outcome.
// @Tags checkout
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Param action body allocation.Action true "Action"
// @Success 200 {object} models.CheckoutResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/checkout/{session}/actions [post]
func (c *CheckoutController) dispatch(g *gin.Context) {
	var action allocation.Action
	if err := g.ShouldBindJSON(&action); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	snap, outcome, err := c.registry.Dispatch(g.Param("session"), action)
	if err != nil {
		if errors.Is(err, allocation.ErrUnknownAction) {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
			return
		}
		c.sessionError(g, err)
		return
	}

	response := models.TransformCheckoutFromState(snap.ID, snap.State)
	response.Outcome = &outcome
	g.JSON(http.StatusOK, response)
}

// confirm godoc
// @Summary Confirm the allocation
// @Description Forwards payment method, votes per candidate and coupon to the payment service once every vote is allocated across the eligible number of candidates
// @Tags checkout
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} models.ConfirmResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Allocation incomplete"
// @Failure 502 {object} models.ErrorResponse "Payment service failed"
// @Router /api/checkout/{session}/confirm [post]
func (c *CheckoutController) confirm(g *gin.Context) {
	receipt, err := c.registry.Confirm(g.Request.Context(), g.Param("session"))
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrNotConfirmable):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, checkout.ErrSessionNotFound):
			c.sessionError(g, err)
		default:
			g.JSON(http.StatusBadGateway, &models.ErrorResponse{Error: "payment service could not confirm the purchase"})
		}
		return
	}

	g.JSON(http.StatusOK, &models.ConfirmResponse{Message: "purchase forwarded", Receipt: *receipt})
}

// close godoc
// @Summary Close a checkout without confirming
// @Tags checkout
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/checkout/{session} [delete]
func (c *CheckoutController) close(g *gin.Context) {
	if err := c.registry.Close(g.Param("session")); err != nil {
		c.sessionError(g, err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "checkout closed"})
}

func (c *CheckoutController) sessionError(g *gin.Context, err error) {
	if errors.Is(err, checkout.ErrSessionNotFound) {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		return
	}
	logging.Log.Errorf("CHECKOUT: unexpected error: %v", err)
	g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
}
