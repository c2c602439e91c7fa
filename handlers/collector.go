package handlers

import (
	"context"
	"net/http"

	"recicleaqui/middleware"
	"recicleaqui/models"
	"recicleaqui/services/collector"
	"recicleaqui/services/ownership"
	"recicleaqui/utils"

	"github.com/gin-gonic/gin"
)

// CollectorDirectory is the collector search and point management the
// endpoints call.
type CollectorDirectory interface {
	SearchCollectors(ctx context.Context, f collector.SearchFilter) ([]collector.CollectorResult, error)
	CreateCollectionPointForUser(ctx context.Context, actor ownership.Actor, in collector.CreatePointInput) (*models.CollectionPoint, error)
	SetCollectionPointActiveForUser(ctx context.Context, actor ownership.Actor, pointID string, active bool) (*models.CollectionPoint, error)
	ListPointsForUser(ctx context.Context, actor ownership.Actor) ([]models.CollectionPoint, error)
}

// CollectorHandler serves /api/collectors.
type CollectorHandler struct {
	Service CollectorDirectory
}

func NewCollectorHandler(svc CollectorDirectory) *CollectorHandler {
	return &CollectorHandler{Service: svc}
}

type searchCollectorsQuery struct {
	City           string   `form:"city"`
	State          string   `form:"state"`
	Line           string   `form:"line" binding:"omitempty,materialline"`
	CollectionType string   `form:"collectionType" binding:"omitempty,oneof=MOBILE FIXED BOTH"`
	Latitude       *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `form:"lng" binding:"omitempty,gte=-180,lte=180"`
	RadiusKm       float64  `form:"radiusKm" binding:"gte=0"`
}

type createPointRequest struct {
	Name    string         `json:"name" binding:"required"`
	Address models.Address `json:"address"`
	Lines   []string       `json:"acceptedLines" binding:"required,min=1,dive,materialline"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SearchCollectorsHandler handles GET /api/collectors/search.
func (h *CollectorHandler) SearchCollectorsHandler(c *gin.Context) {
	var q searchCollectorsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	filter := collector.SearchFilter{
		City:           q.City,
		State:          q.State,
		CollectionType: models.CollectionType(q.CollectionType),
		Latitude:       q.Latitude,
		Longitude:      q.Longitude,
		RadiusKm:       q.RadiusKm,
	}
	if q.Line != "" {
		line, err := models.ParseMaterialLine(q.Line)
		if err != nil {
			utils.RespondError(c, bindError(err))
			return
		}
		filter.Line = line
	}

	results, err := h.Service.SearchCollectors(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collectors": results})
}

// CreatePointHandler handles POST /api/collectors/me/points.
func (h *CollectorHandler) CreatePointHandler(c *gin.Context) {
	var req createPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	p, err := h.Service.CreateCollectionPointForUser(c.Request.Context(), middleware.ActorFrom(c), collector.CreatePointInput{
		Name:    req.Name,
		Address: req.Address,
		Lines:   req.Lines,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListMyPointsHandler handles GET /api/collectors/me/points.
func (h *CollectorHandler) ListMyPointsHandler(c *gin.Context) {
	points, err := h.Service.ListPointsForUser(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// SetPointActiveHandler handles PATCH /api/collectors/points/:pointId/active.
func (h *CollectorHandler) SetPointActiveHandler(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	p, err := h.Service.SetCollectionPointActiveForUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("pointId"), *req.IsActive)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
