package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("mw")) })
}

func TestRegistryMountsAtRootWithMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Use(func(c *gin.Context) { c.Set("mw", "ran") })
	reg.Add(pingModule{})
	reg.RegisterAll()

	rec := httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ran", rec.Body.String())
}
