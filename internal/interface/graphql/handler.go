package graphql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-auth-service/pkg/response"
	"github.com/oksasatya/user-auth-service/pkg/validation"
)

type Handler struct {
	Schema *graphqlgo.Schema
	Logger logrus.FieldLogger
}

func NewHandler(schema *graphqlgo.Schema, logger logrus.FieldLogger) *Handler {
	return &Handler{Schema: schema, Logger: logger}
}

type request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve executes a GraphQL request. Resolver errors are reported in the
// response errors array with status 200; only malformed bodies get 400.
func (h *Handler) Serve(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res := h.Schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	if len(res.Errors) > 0 && h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"operation":  req.OperationName,
			"errors":     len(res.Errors),
		}).Debug("graphql request returned errors")
	}
	c.JSON(http.StatusOK, res)
}
