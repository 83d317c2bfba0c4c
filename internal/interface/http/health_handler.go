package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/pkg/response"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Check
	Logger logrus.FieldLogger
}

func NewHealthHandler(checks map[string]Check, logger logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{Checks: checks, Logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.Checks))
	healthy := true
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			healthy = false
			status[name] = "down"
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			}
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", status)
		return
	}
	response.Success(c, http.StatusOK, status, "healthy", nil)
}
