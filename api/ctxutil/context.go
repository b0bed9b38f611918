// Package ctxutil bridges gin request context into the context.Context
// passed down to the application and persistence layers.
package ctxutil

import (
	"context"

	"voicenotes/api/response"
	"voicenotes/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
