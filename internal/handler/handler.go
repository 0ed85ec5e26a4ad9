package handler

import (
	"github.com/WandevPB/brisagenda-backend/internal/service"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"
	"github.com/WandevPB/brisagenda-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorFrom rebuilds the caller identity placed into the context by the
// auth middleware.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:       c.GetString("userID"),
		Username: c.GetString("userName"),
		Role:     c.GetString("userRole"),
		Center:   c.GetString("userCenter"),
	}
}

// abortWithError maps a service error onto the response envelope.
func abortWithError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.HTTPStatus(), response.ErrorWithCode(appErr.HTTPStatus(), string(appErr.Code), appErr.Message, appErr.Details))
}
