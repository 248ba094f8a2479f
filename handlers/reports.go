package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const reportsPageSize = 50

// ListReports is GET /api/wastewise/reports: the calling user's reports,
// newest first. Backs the citizen dashboard's report history.
func (h *Intake) ListReports(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	defer cancel()

	reports, err := h.Reports.ListByUser(ctx, userID, reportsPageSize)
	if err != nil {
		log.Printf("Failed to list reports for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ListZones is GET /api/wastewise/zones: active dumping zones for the
// municipality dashboard map. Served from the matcher's snapshot, refreshed
// opportunistically.
func (h *Intake) ListZones(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	defer cancel()

	if err := h.Zones.Refresh(ctx); err != nil {
		log.Printf("Zone refresh failed, serving snapshot: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"zones": h.Zones.Snapshot()})
}
