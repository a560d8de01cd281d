package middleware

import (
	stderrors "errors"

	"github.com/architect/classroom-backend/internal/common/errors"
	"github.com/architect/classroom-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler middleware catches panics and converts them to proper error responses
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				appErr := errors.Internal("internal server error", "")
				c.AbortWithStatusJSON(appErr.Status, appErr)
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse wraps errors in consistent JSON format. Internal detail
// is logged, never sent to the client.
func JSONErrorResponse(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Internal("internal server error", "")
	}

	if appErr.Status >= 500 {
		logger.L().Error("request failed",
			zap.String("code", appErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		// Generic message for server-side failures; details stay in the logs.
		c.JSON(appErr.Status, &errors.AppError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Status:  appErr.Status,
		})
		return
	}

	c.JSON(appErr.Status, appErr)
}
