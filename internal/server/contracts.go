package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contractdomain "github.com/halaltools/amanah/internal/contract/domain"
)

type generateContractRequest struct {
	ContractType string            `json:"contractType"`
	FormData     map[string]string `json:"formData"`
}

// GenerateContract renders a contract for the caller, spending one free use
// unless the account is premium.
func (s *Server) GenerateContract(c *gin.Context) {
	var req generateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", "request body must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.ContractType) == "" {
		AbortWithError(c, newValidationError("contractType", "required", "contractType is required"))
		return
	}

	ip := clientIP(c)
	if s.limiter.Enabled() {
		allowed, err := s.limiter.Allow(c.Request.Context(), ip)
		if err == nil && !allowed {
			AbortWithError(c, ErrTooManyRequest)
			return
		}
		// limiter errors fail open, the quota still bounds usage
	}

	identity, unlimited := s.callerIdentity(c)

	result, err := s.contractSvc.Generate(c.Request.Context(), contractdomain.GenerateRequest{
		Identity:     identity,
		Unlimited:    unlimited,
		ContractType: req.ContractType,
		Fields:       req.FormData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	remaining := result.Remaining
	if result.Unlimited {
		remaining = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"contract":          result.Contract,
		"remainingFreeUses": remaining,
	})
}
