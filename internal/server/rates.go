package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRates serves the latest stored metal prices. Fallback snapshots are
// flagged so clients can warn that values may be stale.
func (s *Server) GetRates(c *gin.Context) {
	snapshot, err := s.ratesSvc.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	message := "live rates"
	if snapshot.IsFallback {
		message = "showing last known rates, live feed unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"gold":      snapshot.Gold,
		"silver":    snapshot.Silver,
		"timestamp": snapshot.FetchedAt,
		"fallback":  snapshot.IsFallback,
		"message":   message,
	})
}
