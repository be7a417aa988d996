// File: internal/adoption/handler.go
package adoption

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

// Handler struct holds dependencies for adoption handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new adoption handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for adoption operations. Status
// overrides and workflow transitions are admin-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	listingGroup := router.Group("/adoption-listings")
	{
		listingGroup.GET("", h.searchListings)
		listingGroup.GET("/:id", h.getListing)

		authedListings := listingGroup.Group("")
		authedListings.Use(authMW)
		{
			authedListings.POST("", h.createListing)
			authedListings.PATCH("/:id", h.updateListing)
			authedListings.PUT("/:id/status", adminRoleMW, h.setListingStatus)
		}
	}

	requestGroup := router.Group("/adoption-requests")
	requestGroup.Use(authMW)
	{
		requestGroup.POST("", h.submitRequest)
		requestGroup.GET("", h.listRequests)
		requestGroup.GET("/:id", h.getRequest)
		requestGroup.PUT("/:id/status", adminRoleMW, h.updateRequestStatus)
	}
}

func (h *Handler) createListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Adoption listing created successfully.", ToListingResponse(listing))
}

func (h *Handler) getListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	// A detail read counts as a view. Anonymous viewers are recorded without
	// a viewer ID.
	var viewerID *uuid.UUID
	if uid := middleware.GetUserIDFromContext(c); uid != uuid.Nil {
		viewerID = &uid
	}

	listing, err := h.service.GetListing(c.Request.Context(), id, viewerID, true)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Adoption listing retrieved successfully.", ToListingResponse(listing))
}

func (h *Handler) updateListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Adoption listing updated successfully.", ToListingResponse(listing))
}

func (h *Handler) setListingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req SetListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.SetListingStatus(c.Request.Context(), id, req.Status); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing status updated successfully.", nil)
}

func (h *Handler) searchListings(c *gin.Context) {
	var query ListingSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	listings, pagination, err := h.service.SearchListings(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, ToListingResponse(&listings[i]))
	}
	common.RespondPaginated(c, "Adoption listings retrieved successfully.", responses, pagination)
}

func (h *Handler) submitRequest(c *gin.Context) {
	adopterID := middleware.GetUserIDFromContext(c)
	if adopterID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	request, err := h.service.SubmitRequest(c.Request.Context(), adopterID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Adoption request submitted successfully.", ToRequestResponse(request))
}

func (h *Handler) getRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request ID format."))
		return
	}

	request, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// Adopters only see their own requests; admins see all.
	if middleware.GetUserRoleFromContext(c) != shared.RoleAdmin && request.AdopterID != middleware.GetUserIDFromContext(c) {
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You are not authorized to view this request."))
		return
	}
	common.RespondOK(c, "Adoption request retrieved successfully.", ToRequestResponse(request))
}

func (h *Handler) updateRequestStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request ID format."))
		return
	}

	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	request, err := h.service.UpdateRequestStatus(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Adoption request status updated successfully.", ToRequestResponse(request))
}

func (h *Handler) listRequests(c *gin.Context) {
	var query RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	// Non-admin callers are scoped to their own requests.
	if middleware.GetUserRoleFromContext(c) != shared.RoleAdmin {
		adopterID := middleware.GetUserIDFromContext(c)
		query.AdopterID = &adopterID
	}

	page, pageSize := common.GetPaginationParams(c)
	requests, pagination, err := h.service.ListRequests(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, ToRequestResponse(&requests[i]))
	}
	common.RespondPaginated(c, "Adoption requests retrieved successfully.", responses, pagination)
}
