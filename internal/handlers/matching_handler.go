package handlers

import (
	"net/http"

	"talentflow_backend/internal/services"
	"talentflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchingHandler struct {
	*BaseHandler
	matchingService services.MatchingService
}

func NewMatchingHandler(base *BaseHandler, matchingService services.MatchingService) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler:     base,
		matchingService: matchingService,
	}
}

func (h *MatchingHandler) RegisterRoutes(r *gin.RouterGroup) {
	matching := r.Group("/matching")
	{
		matching.POST("/score", h.Score)
		matching.GET("/requirements/:requirementId", h.GetMatches)
	}
}

func (h *MatchingHandler) Score(c *gin.Context) {
	var req dto.ScoreMatchRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.matchingService.MatchApplications(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"matches": result.Matches,
		"total":   result.Total,
	})
}

func (h *MatchingHandler) GetMatches(c *gin.Context) {
	requirementID := c.Param("requirementId")

	result, err := h.matchingService.GetMatchesForRequirement(requirementID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"matches": result.Matches,
		"total":   result.Total,
	})
}
