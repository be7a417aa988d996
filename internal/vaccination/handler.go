// File: internal/vaccination/handler.go
package vaccination

import (
	"errors"

	"pet_rescue_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for vaccination handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new vaccination handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for vaccination operations. Writes are
// admin-only; reads require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	group := router.Group("/vaccinations")
	group.Use(authMW)
	{
		group.GET("", h.listRecords)
		group.GET("/:id", h.getRecord)
		group.POST("", adminRoleMW, h.createRecord)
		group.PATCH("/:id", adminRoleMW, h.updateRecord)
		group.DELETE("/:id", adminRoleMW, h.deleteRecord)
	}
}

func (h *Handler) createRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	record, err := h.service.CreateRecord(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Vaccination record created successfully.", ToRecordResponse(record))
}

func (h *Handler) getRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid record ID format."))
		return
	}
	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Vaccination record retrieved successfully.", ToRecordResponse(record))
}

func (h *Handler) listRecords(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	records, pagination, err := h.service.ListRecords(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i]))
	}
	common.RespondPaginated(c, "Vaccination records retrieved successfully.", responses, pagination)
}

func (h *Handler) updateRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid record ID format."))
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Vaccination record updated successfully.", ToRecordResponse(record))
}

func (h *Handler) deleteRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid record ID format."))
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
