package handler

import (
	"github.com/gin-gonic/gin"

	"polisure/internal/service"
)

// PolicyHandler handles policy corpus endpoints.
type PolicyHandler struct {
	policyService service.PolicyService
}

// NewPolicyHandler creates a new PolicyHandler.
func NewPolicyHandler(policyService service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// List handles GET /api/v1/policies.
func (h *PolicyHandler) List(c *gin.Context) {
	docs, err := h.policyService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// Reload handles POST /api/v1/policies/reload. Admin only.
func (h *PolicyHandler) Reload(c *gin.Context) {
	count, err := h.policyService.Reload(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"loaded": count})
}
