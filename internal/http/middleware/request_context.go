package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shotline/shotline-backend/internal/pkg/ctxutil"
)

func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if ctxutil.GetRequestData(ctx) == nil {
			ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{})
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
