package handlers

import (
	"net/http"

	"talentflow_backend/internal/services"
	"talentflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	*BaseHandler
	analysisService services.AnalysisService
}

func NewAnalysisHandler(base *BaseHandler, analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler:     base,
		analysisService: analysisService,
	}
}

func (h *AnalysisHandler) RegisterRoutes(r *gin.RouterGroup) {
	analysis := r.Group("/analysis")
	{
		analysis.POST("/evaluate", h.Evaluate)
		analysis.GET("/:applicationId", h.GetAnalysis)
	}
}

func (h *AnalysisHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	analysis, err := h.analysisService.AnalyzeApplication(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": analysis,
	})
}

func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	applicationID := c.Param("applicationId")

	analysis, err := h.analysisService.GetAnalysis(applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": analysis,
	})
}
