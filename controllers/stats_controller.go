package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/services"
	"github.com/cppla/aiblog/utils"
)

// StatsController provides blog statistics such as post and comment counts.
type StatsController struct {
	svc *services.BlogService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(svc *services.BlogService) *StatsController {
	return &StatsController{svc: svc}
}

// GetStats returns aggregate statistics for the blog.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := s.svc.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Stats retrieved successfully", stats)
}
