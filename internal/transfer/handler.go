// File: internal/transfer/handler.go
package transfer

import (
	"errors"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/middleware"
	"pet_rescue_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for transfer handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new transfer handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for transfer operations. All routes
// require authentication; status transitions are admin-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	transferGroup := router.Group("/transfers")
	transferGroup.Use(authMW)
	{
		transferGroup.POST("", h.createTransfer)
		transferGroup.GET("", h.listTransfers)
		transferGroup.GET("/:id", h.getTransfer)
		transferGroup.PATCH("/:id", h.updateTransfer)
		transferGroup.DELETE("/:id", h.deleteTransfer)
		transferGroup.PUT("/:id/status", adminRoleMW, h.updateStatus)
	}
}

func (h *Handler) createTransfer(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	t, err := h.service.CreateTransfer(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Transfer request created successfully.", ToTransferResponse(t))
}

func (h *Handler) getTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid transfer ID format."))
		return
	}
	t, err := h.service.GetTransfer(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if middleware.GetUserRoleFromContext(c) != shared.RoleAdmin && t.UserID != middleware.GetUserIDFromContext(c) {
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You are not authorized to view this transfer."))
		return
	}
	common.RespondOK(c, "Transfer retrieved successfully.", ToTransferResponse(t))
}

func (h *Handler) listTransfers(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	// Non-admin callers only see their own transfers.
	if middleware.GetUserRoleFromContext(c) != shared.RoleAdmin {
		userID := middleware.GetUserIDFromContext(c)
		query.UserID = &userID
	}

	page, pageSize := common.GetPaginationParams(c)
	transfers, pagination, err := h.service.ListTransfers(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}
	common.RespondPaginated(c, "Transfers retrieved successfully.", responses, pagination)
}

func (h *Handler) updateTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid transfer ID format."))
		return
	}

	var req UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	t, err := h.service.UpdateTransfer(
		c.Request.Context(),
		middleware.GetUserIDFromContext(c),
		middleware.GetUserRoleFromContext(c),
		id, req,
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Transfer updated successfully.", ToTransferResponse(t))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid transfer ID format."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	t, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Transfer status updated successfully.", ToTransferResponse(t))
}

func (h *Handler) deleteTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid transfer ID format."))
		return
	}

	err = h.service.DeleteTransfer(
		c.Request.Context(),
		middleware.GetUserIDFromContext(c),
		middleware.GetUserRoleFromContext(c),
		id,
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
