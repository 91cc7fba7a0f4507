package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/services"
	"github.com/cppla/aiblog/utils"
)

// TagController exposes the tag catalogue.
type TagController struct {
	svc *services.BlogService
}

func NewTagController(svc *services.BlogService) *TagController {
	return &TagController{svc: svc}
}

// ListTags returns all tags ordered by name.
func (t *TagController) ListTags(ctx *gin.Context) {
	tags, err := t.svc.ListTags(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, http.StatusOK, "Tags retrieved successfully", tags)
}
