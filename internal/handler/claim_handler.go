package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"polisure/internal/service"
)

// ClaimHandler handles claim triage endpoints.
type ClaimHandler struct {
	claimService service.ClaimService
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(claimService service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// Submit handles POST /api/v1/claims. The request is multipart form data with
// a required "description" field and an optional "attachment" file.
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	input := service.SubmitClaimInput{
		Description: c.PostForm("description"),
		SubmittedBy: userID,
	}

	file, header, err := c.Request.FormFile("attachment")
	if err == nil {
		defer file.Close()
		input.File = file
		input.Header = header
	} else if err != http.ErrMissingFile {
		// Fall through for non-multipart requests carrying JSON.
		var body struct {
			Description string `json:"description"`
		}
		if bindErr := c.ShouldBindJSON(&body); bindErr == nil && body.Description != "" {
			input.Description = body.Description
		}
	}

	claim, err := h.claimService.Submit(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, claim)
}

// GetByID handles GET /api/v1/claims/:id.
func (h *ClaimHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid claim ID")
		return
	}

	claim, err := h.claimService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, claim)
}

// List handles GET /api/v1/claims with optional status, offset and limit
// query parameters.
func (h *ClaimHandler) List(c *gin.Context) {
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 20)

	claims, total, err := h.claimService.List(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, claims, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/claims/export?format=csv|xlsx.
func (h *ClaimHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	data, filename, err := h.claimService.Export(c.Request.Context(), format)
	if err != nil {
		HandleError(c, err)
		return
	}

	contentType := "text/csv"
	if format == service.ExportFormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// GetAttachmentURL handles GET /api/v1/claims/:id/attachment.
func (h *ClaimHandler) GetAttachmentURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid claim ID")
		return
	}

	url, err := h.claimService.GetAttachmentURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
