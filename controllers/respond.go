package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/aiblog/services"
	"github.com/cppla/aiblog/utils"
)

// respondError maps a service error onto the failure envelope. Causes of
// internal errors are logged and never sent to the client.
func respondError(ctx *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		utils.Logger.Error("unclassified error",
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
		utils.Error(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	if svcErr.Kind == services.KindInternal {
		utils.Logger.Error(svcErr.Message,
			zap.String("code", svcErr.Code),
			zap.String("path", ctx.FullPath()),
			zap.Error(svcErr.Err),
		)
	}
	utils.Error(ctx, svcErr.StatusCode(), svcErr.Code, svcErr.Message)
}

func respondInvalidBody(ctx *gin.Context) {
	utils.Error(ctx, http.StatusBadRequest, services.CodeValidation, "Invalid request body")
}

func respondUnauthorized(ctx *gin.Context) {
	utils.Error(ctx, http.StatusUnauthorized, services.CodeUnauthorized, "Unauthorized")
}
