package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	verdictdomain "github.com/halaltools/amanah/internal/verdict/domain"
)

// EvaluateInvestment runs the Shariah compliance review for one instrument.
func (s *Server) EvaluateInvestment(c *gin.Context) {
	var inv verdictdomain.Investment
	if err := c.ShouldBindJSON(&inv); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "request body must be valid JSON"))
		return
	}
	if strings.TrimSpace(inv.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	eval, err := s.verdictSvc.Evaluate(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, eval)
}
