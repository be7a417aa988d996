// File: internal/pet/handler.go
package pet

import (
	"errors"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for pet handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new pet handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for pet operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	petGroup := router.Group("/pets")
	{
		petGroup.GET("", h.searchPets)
		petGroup.GET("/:id", h.getPet)

		authed := petGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.createPet)
			authed.PATCH("/:id", h.updatePet)
			authed.DELETE("/:id", h.deletePet)
		}
	}

	// Separate path so the static segment does not clash with /pets/:id.
	myPets := router.Group("/my-pets")
	myPets.Use(authMW)
	{
		myPets.GET("", h.getMyPets)
	}
}

func (h *Handler) createPet(c *gin.Context) {
	ownerID := middleware.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.CreatePet(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Pet registered successfully.", ToPetResponse(p))
}

func (h *Handler) getPet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid pet ID format."))
		return
	}
	p, err := h.service.GetPetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Pet retrieved successfully.", ToPetResponse(p))
}

func (h *Handler) updatePet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid pet ID format."))
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.UpdatePet(
		c.Request.Context(),
		middleware.GetUserIDFromContext(c),
		middleware.GetUserRoleFromContext(c),
		id, req,
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Pet updated successfully.", ToPetResponse(p))
}

func (h *Handler) deletePet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid pet ID format."))
		return
	}

	err = h.service.DeletePet(
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

func (h *Handler) searchPets(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	pets, pagination, err := h.service.SearchPets(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PetResponse, 0, len(pets))
	for i := range pets {
		responses = append(responses, ToPetResponse(&pets[i]))
	}
	common.RespondPaginated(c, "Pets retrieved successfully.", responses, pagination)
}

func (h *Handler) getMyPets(c *gin.Context) {
	ownerID := middleware.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	pets, pagination, err := h.service.GetPetsByOwner(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]PetResponse, 0, len(pets))
	for i := range pets {
		responses = append(responses, ToPetResponse(&pets[i]))
	}
	common.RespondPaginated(c, "Pets retrieved successfully.", responses, pagination)
}
