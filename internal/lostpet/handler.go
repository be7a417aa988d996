// File: internal/lostpet/handler.go
package lostpet

import (
	"errors"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for lost-pet handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new lost-pet handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for lost-pet operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	lostGroup := router.Group("/lost-records")
	{
		lostGroup.GET("", h.listRecords)
		lostGroup.GET("/:id", h.getRecord)
		lostGroup.GET("/:id/sightings", h.listSightings)

		authed := lostGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.reportLost)
			authed.PUT("/:id/status", h.updateStatus)
			authed.POST("/:id/sightings", h.addSighting)
		}
	}

	sightingGroup := router.Group("/sightings")
	{
		sightingGroup.GET("/:id", h.getSighting)
		sightingGroup.PUT("/:id/matched", authMW, h.markMatched)
	}
}

func (h *Handler) reportLost(c *gin.Context) {
	var req ReportLostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	record, err := h.service.ReportLost(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Lost record created successfully.", ToLostRecordResponse(record))
}

func (h *Handler) getRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid lost record ID format."))
		return
	}
	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Lost record retrieved successfully.", ToLostRecordResponse(record))
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

	responses := make([]LostRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToLostRecordResponse(&records[i]))
	}
	common.RespondPaginated(c, "Lost records retrieved successfully.", responses, pagination)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid lost record ID format."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	record, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Lost record status updated successfully.", ToLostRecordResponse(record))
}

func (h *Handler) addSighting(c *gin.Context) {
	reporterID := middleware.GetUserIDFromContext(c)
	if reporterID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid lost record ID format."))
		return
	}

	var req AddSightingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	report, err := h.service.AddSighting(c.Request.Context(), recordID, reporterID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Sighting reported successfully.", report)
}

func (h *Handler) listSightings(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid lost record ID format."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	reports, pagination, err := h.service.ListSightings(c.Request.Context(), recordID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Sightings retrieved successfully.", reports, pagination)
}

func (h *Handler) getSighting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid sighting ID format."))
		return
	}
	report, err := h.service.GetSighting(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Sighting retrieved successfully.", report)
}

func (h *Handler) markMatched(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid sighting ID format."))
		return
	}

	var req MarkMatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.MarkMatched(c.Request.Context(), id, req.Matched); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Sighting matched flag updated successfully.", nil)
}
