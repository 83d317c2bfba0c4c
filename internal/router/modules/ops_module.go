package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-auth-service/internal/interface/http"
	"github.com/oksasatya/user-auth-service/pkg/metrics"
)

// OpsModule exposes /healthz and, when metrics are given, /metrics.
type OpsModule struct {
	Health  *handlers.HealthHandler
	Metrics *metrics.Metrics
}

func NewOpsModule(h *handlers.HealthHandler, m *metrics.Metrics) *OpsModule {
	return &OpsModule{Health: h, Metrics: m}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Health)
	if m.Metrics != nil {
		rg.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}
}
