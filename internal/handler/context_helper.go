package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aim-high/checkout-api/internal/middleware"
	"github.com/aim-high/checkout-api/internal/models"
	appErrors "github.com/aim-high/checkout-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// calendarHint tailors a missing-calendar error to the caller. Staff can fix
// the configuration, so they get told how; everyone else gets a plain
// failure.
func calendarHint(c *gin.Context, err error) error {
	appErr := appErrors.FromError(err)
	if appErr.Code != appErrors.ErrConfigurationMissing.Code {
		return err
	}
	if claims := claimsFromContext(c); claims != nil && claims.Staff {
		return appErrors.Clone(appErrors.ErrConfigurationMissing,
			"site has no periods configured; add periods in the site calendar before scheduling")
	}
	return appErrors.Clone(appErrors.ErrConfigurationMissing,
		"site is not set up for reservations yet; contact site staff")
}
