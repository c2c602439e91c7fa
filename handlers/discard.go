package handlers

import (
	"context"
	"net/http"

	"recicleaqui/apperr"
	"recicleaqui/middleware"
	"recicleaqui/models"
	"recicleaqui/services/discard"
	"recicleaqui/services/ownership"
	"recicleaqui/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiscardGuard is the ownership-checked discard workflow the endpoints call.
type DiscardGuard interface {
	RegisterDiscardForUser(ctx context.Context, actor ownership.Actor, in discard.RegisterDiscardInput) (*models.Discard, error)
	ListDiscardsForUser(ctx context.Context, actor ownership.Actor) ([]models.Discard, error)
	GetDiscardForUser(ctx context.Context, actor ownership.Actor, discardID string) (*discard.DiscardDetails, error)
	CancelDiscardOwnedByUser(ctx context.Context, actor ownership.Actor, discardID string) (*models.Discard, error)
	CompleteDiscardOwnedByCollector(ctx context.Context, actor ownership.Actor, discardID string) (*models.Discard, error)
	ListPendingPickupForUser(ctx context.Context, actor ownership.Actor) ([]models.Discard, error)
	ListPendingPickupByDistanceForUser(ctx context.Context, actor ownership.Actor, radiusKm float64) ([]discard.PickupCandidate, error)
	CreateOfferForUser(ctx context.Context, actor ownership.Actor, discardID string, slots []models.TimeSlot) (*models.Offer, error)
	AcceptOfferOwnedByUser(ctx context.Context, actor ownership.Actor, offerID string, chosenSlotIndex int) (*discard.OfferDecision, error)
	RejectOfferOwnedByUser(ctx context.Context, actor ownership.Actor, offerID string) (*discard.OfferDecision, error)
}

// EligiblePointFinder lists the collection points able to receive a discard.
type EligiblePointFinder interface {
	ListEligibleCollectionPoints(ctx context.Context, clientAddress models.Address, lines models.Lines, radiusKm float64) ([]discard.EligiblePoint, error)
}

// DiscardHandler serves /api/discards.
type DiscardHandler struct {
	Guard  DiscardGuard
	Points EligiblePointFinder
}

func NewDiscardHandler(guard DiscardGuard, points EligiblePointFinder) *DiscardHandler {
	return &DiscardHandler{Guard: guard, Points: points}
}

type registerDiscardRequest struct {
	Mode              models.DiscardMode `json:"mode" binding:"required,oneof=PICKUP COLLECTION_POINT"`
	Lines             []string           `json:"lines" binding:"required,min=1,dive,materialline"`
	CollectionPointID string             `json:"collectionPointId"`
	Description       string             `json:"description" binding:"max=1000"`
}

type slotRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type createOfferRequest struct {
	Slots []slotRequest `json:"proposedSlots" binding:"required,min=1"`
}

type acceptOfferRequest struct {
	ChosenSlotIndex *int `json:"chosenSlotIndex" binding:"required,min=0"`
}

type radiusQuery struct {
	RadiusKm float64 `form:"radiusKm" binding:"gte=0"`
}

type eligiblePointsQuery struct {
	Lines    string  `form:"lines" binding:"required"`
	RadiusKm float64 `form:"radiusKm" binding:"gte=0"`
}

// RegisterDiscardHandler handles POST /api/discards.
func (h *DiscardHandler) RegisterDiscardHandler(c *gin.Context) {
	var req registerDiscardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	d, err := h.Guard.RegisterDiscardForUser(c.Request.Context(), middleware.ActorFrom(c), discard.RegisterDiscardInput{
		Mode:              req.Mode,
		Lines:             req.Lines,
		CollectionPointID: req.CollectionPointID,
		Description:       req.Description,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// ListMyDiscardsHandler handles GET /api/discards/mine.
func (h *DiscardHandler) ListMyDiscardsHandler(c *gin.Context) {
	list, err := h.Guard.ListDiscardsForUser(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discards": list})
}

// GetDiscardHandler handles GET /api/discards/:discardId.
func (h *DiscardHandler) GetDiscardHandler(c *gin.Context) {
	details, err := h.Guard.GetDiscardForUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("discardId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// EligiblePointsHandler handles POST /api/discards/eligible-points. The body
// is the client address; lines and radiusKm come from the query string.
func (h *DiscardHandler) EligiblePointsHandler(c *gin.Context) {
	var q eligiblePointsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	lines, err := models.ParseMaterialLines(splitList(q.Lines))
	if err != nil {
		utils.RespondError(c, apperr.Validation(err.Error()))
		return
	}
	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}

	points, err := h.Points.ListEligibleCollectionPoints(c.Request.Context(), addr, lines, q.RadiusKm)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// PendingPickupHandler handles GET /api/discards/pending-pickup.
func (h *DiscardHandler) PendingPickupHandler(c *gin.Context) {
	list, err := h.Guard.ListPendingPickupForUser(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discards": list})
}

// NearbyPendingPickupHandler handles GET /api/discards/pending-pickup/nearby.
func (h *DiscardHandler) NearbyPendingPickupHandler(c *gin.Context) {
	var q radiusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	list, err := h.Guard.ListPendingPickupByDistanceForUser(c.Request.Context(), middleware.ActorFrom(c), q.RadiusKm)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discards": list})
}

// CreateOfferHandler handles POST /api/discards/:discardId/offers.
func (h *DiscardHandler) CreateOfferHandler(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	slots := make([]models.TimeSlot, len(req.Slots))
	for i, s := range req.Slots {
		slots[i] = models.TimeSlot{Date: s.Date, Start: s.Start, End: s.End}
	}

	offer, err := h.Guard.CreateOfferForUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("discardId"), slots)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// AcceptOfferHandler handles POST /api/discards/offers/:offerId/accept.
func (h *DiscardHandler) AcceptOfferHandler(c *gin.Context) {
	var req acceptOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	decision, err := h.Guard.AcceptOfferOwnedByUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("offerId"), *req.ChosenSlotIndex)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	logger := utils.GetLogger()
	logger.Info("Offer accepted via API", zap.String("offerID", decision.Offer.ID), zap.String("discardID", decision.Discard.ID))
	c.JSON(http.StatusOK, decision)
}

// RejectOfferHandler handles POST /api/discards/offers/:offerId/reject.
func (h *DiscardHandler) RejectOfferHandler(c *gin.Context) {
	decision, err := h.Guard.RejectOfferOwnedByUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("offerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// CancelDiscardHandler handles POST /api/discards/:discardId/cancel.
func (h *DiscardHandler) CancelDiscardHandler(c *gin.Context) {
	d, err := h.Guard.CancelDiscardOwnedByUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("discardId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// CompleteDiscardHandler handles POST /api/discards/:discardId/complete.
func (h *DiscardHandler) CompleteDiscardHandler(c *gin.Context) {
	d, err := h.Guard.CompleteDiscardOwnedByCollector(c.Request.Context(), middleware.ActorFrom(c), c.Param("discardId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
