package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-workload-api/internal/middleware"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
	"github.com/noah-isme/faculty-workload-api/pkg/response"
)

// actorFromContext returns the caller identity stored by the JWT middleware, or nil.
func actorFromContext(c *gin.Context) *models.JWTClaims {
	claims, _ := c.Get(middleware.ContextUserKey)
	actor, _ := claims.(*models.JWTClaims)
	return actor
}

// requireActor is actorFromContext for self-service routes. It writes a 401 and reports
// false when the request carries no identity.
func requireActor(c *gin.Context) (*models.JWTClaims, bool) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
		return nil, false
	}
	return actor, true
}
