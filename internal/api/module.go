package api

import (
	"github.com/gin-gonic/gin"

	"easypcm_backend/platform/config"
	"easypcm_backend/platform/httpkit"
	"easypcm_backend/platform/validator"
)

// Module assembles the reporting API.
type Module struct {
	handler *Handler
	jwtCfg  config.JWTConfig
}

func NewModule(workOrders WorkOrders, exporter Exporter, val *validator.Validator, jwtCfg config.JWTConfig) *Module {
	return &Module{handler: NewHandler(workOrders, exporter, val), jwtCfg: jwtCfg}
}

func (m *Module) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1", httpkit.AuthRequired(m.jwtCfg))
	v1.GET("/work-orders", m.handler.HandleListWorkOrders)
	v1.GET("/work-orders/:id", m.handler.HandleGetWorkOrder)
	v1.POST("/exports", m.handler.HandleCreateExport)
}
