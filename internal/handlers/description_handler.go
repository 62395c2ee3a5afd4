package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gastocerto/internal/services"
)

// DescriptionHandler handles the quick-entry description names.
type DescriptionHandler struct {
	descriptionService services.DescriptionServicer
}

// NewDescriptionHandler creates a new DescriptionHandler.
func NewDescriptionHandler(descriptionService services.DescriptionServicer) *DescriptionHandler {
	return &DescriptionHandler{descriptionService: descriptionService}
}

// AddDescriptionRequest represents the request payload for a custom description.
type AddDescriptionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// ListDescriptions handles the merged description list
// @Summary     List descriptions
// @Description Built-in names merged with the household's own, sorted alphabetically
// @Tags        descriptions
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Success     200 {array} models.DescriptionTag
// @Router      /descriptions [get]
func (h *DescriptionHandler) ListDescriptions(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tags, err := h.descriptionService.ListDescriptions(householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"descriptions": tags})
}

// AddDescription handles a new custom description
// @Summary     Add a description
// @Tags        descriptions
// @Accept      json
// @Produce     json
// @Param       X-Household-ID header string true "Household"
// @Param       request body AddDescriptionRequest true "Description"
// @Success     201 {object} models.DescriptionTag
// @Failure     409 {object} ErrorResponse "Already exists"
// @Router      /descriptions [post]
func (h *DescriptionHandler) AddDescription(c *gin.Context) {
	householdID, err := getHousehold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	tag, err := h.descriptionService.AddDescription(householdID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"description": tag})
}
