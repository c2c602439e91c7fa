package handlers

import (
	"net/http"

	"recicleaqui/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Discard endpoints
	RegisterDiscardHandler     gin.HandlerFunc
	ListMyDiscardsHandler      gin.HandlerFunc
	GetDiscardHandler          gin.HandlerFunc
	EligiblePointsHandler      gin.HandlerFunc
	PendingPickupHandler       gin.HandlerFunc
	NearbyPendingPickupHandler gin.HandlerFunc
	CancelDiscardHandler       gin.HandlerFunc
	CompleteDiscardHandler     gin.HandlerFunc

	// Offer endpoints
	CreateOfferHandler gin.HandlerFunc
	AcceptOfferHandler gin.HandlerFunc
	RejectOfferHandler gin.HandlerFunc

	// Collector endpoints
	SearchCollectorsHandler gin.HandlerFunc
	CreatePointHandler      gin.HandlerFunc
	ListMyPointsHandler     gin.HandlerFunc
	SetPointActiveHandler   gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the discard and collector handlers into a bundle.
// health may be nil, in which case /health only reports liveness.
func NewHandlerBundle(d *DiscardHandler, col *CollectorHandler, health *utils.HealthMonitor) *HandlerBundle {
	return &HandlerBundle{
		RegisterDiscardHandler:     d.RegisterDiscardHandler,
		ListMyDiscardsHandler:      d.ListMyDiscardsHandler,
		GetDiscardHandler:          d.GetDiscardHandler,
		EligiblePointsHandler:      d.EligiblePointsHandler,
		PendingPickupHandler:       d.PendingPickupHandler,
		NearbyPendingPickupHandler: d.NearbyPendingPickupHandler,
		CancelDiscardHandler:       d.CancelDiscardHandler,
		CompleteDiscardHandler:     d.CompleteDiscardHandler,

		CreateOfferHandler: d.CreateOfferHandler,
		AcceptOfferHandler: d.AcceptOfferHandler,
		RejectOfferHandler: d.RejectOfferHandler,

		SearchCollectorsHandler: col.SearchCollectorsHandler,
		CreatePointHandler:      col.CreatePointHandler,
		ListMyPointsHandler:     col.ListMyPointsHandler,
		SetPointActiveHandler:   col.SetPointActiveHandler,

		HealthHandler: HealthHandler(health),
	}
}

// HealthHandler reports the latest dependency snapshot.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm RecicleAqui"})
			return
		}
		status := monitor.Status()
		code, label := http.StatusOK, "ok"
		if !status.Healthy() {
			code, label = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": label, "dependencies": status})
	}
}
