// Package api is the authenticated reporting surface: JSON work-order
// queries and CSV export requests, org-scoped through JWT claims.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"easypcm_backend/internal/exports"
	"easypcm_backend/internal/workorder/repository"
	"easypcm_backend/platform/apperr"
	"easypcm_backend/platform/httpkit"
	"easypcm_backend/platform/validator"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// WorkOrders is the slice of the lifecycle service the API reads from.
type WorkOrders interface {
	List(ctx context.Context, orgID int64, status string, limit int) ([]repository.WorkOrder, error)
	Get(ctx context.Context, orgID, workOrderID int64) (repository.WorkOrder, error)
	ListMaterials(ctx context.Context, workOrderID int64) ([]string, error)
	ListTechnicians(ctx context.Context, workOrderID int64) ([]string, error)
}

// Exporter produces CSV extracts.
type Exporter interface {
	Export(ctx context.Context, orgID int64, status string) (exports.Result, error)
}

type Handler struct {
	workOrders WorkOrders
	exporter   Exporter
	val        *validator.Validator
}

func NewHandler(workOrders WorkOrders, exporter Exporter, val *validator.Validator) *Handler {
	return &Handler{workOrders: workOrders, exporter: exporter, val: val}
}

// WorkOrderResponse is the JSON shape of one work order.
type WorkOrderResponse struct {
	ID                 int64      `json:"id"`
	Equipment          string     `json:"equipment"`
	Sector             string     `json:"sector"`
	Requester          string     `json:"requester"`
	Executor           string     `json:"executor"`
	ProblemDescription string     `json:"problemDescription"`
	MaintenanceType    string     `json:"maintenanceType"`
	Stopped            string     `json:"machineStopped"`
	Status             string     `json:"status"`
	StatusNote         string     `json:"statusNote"`
	SolutionApplied    string     `json:"solutionApplied"`
	TimeSpentMinutes   int        `json:"timeSpentMinutes"`
	PartsCost          string     `json:"partsCost"`
	OpenedAt           time.Time  `json:"openedAt"`
	ClosedAt           *time.Time `json:"closedAt,omitempty"`

	Materials   []string `json:"materials,omitempty"`
	Technicians []string `json:"technicians,omitempty"`
}

func toResponse(wo repository.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:                 wo.ID,
		Equipment:          wo.Equipment,
		Sector:             wo.Sector,
		Requester:          wo.Requester,
		Executor:           wo.Executor,
		ProblemDescription: wo.ProblemDescription,
		MaintenanceType:    wo.MaintenanceType,
		Stopped:            wo.Stopped,
		Status:             wo.Status,
		StatusNote:         wo.StatusNote,
		SolutionApplied:    wo.SolutionApplied,
		TimeSpentMinutes:   wo.TimeSpentMinutes,
		PartsCost:          wo.PartsCost,
		OpenedAt:           wo.OpenedAt,
		ClosedAt:           wo.ClosedAt,
	}
}

// HandleListWorkOrders serves GET /api/v1/work-orders?status=&limit=.
func (h *Handler) HandleListWorkOrders(c *gin.Context) {
	orgID, ok := httpkit.MustGetOrgID(c)
	if !ok {
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(parsed, maxListLimit)
	}

	orders, err := h.workOrders.List(c.Request.Context(), orgID, c.Query("status"), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	out := make([]WorkOrderResponse, 0, len(orders))
	for _, wo := range orders {
		out = append(out, toResponse(wo))
	}
	httpkit.OK(c, gin.H{"workOrders": out})
}

// HandleGetWorkOrder serves GET /api/v1/work-orders/:id with materials and
// technicians attached.
func (h *Handler) HandleGetWorkOrder(c *gin.Context) {
	orgID, ok := httpkit.MustGetOrgID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.HandleError(c, apperr.Validation("invalid work order id"))
		return
	}

	wo, err := h.workOrders.Get(c.Request.Context(), orgID, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := toResponse(wo)
	if resp.Materials, err = h.workOrders.ListMaterials(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if resp.Technicians, err = h.workOrders.ListTechnicians(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// ExportRequest asks for a CSV extract, optionally filtered by status.
type ExportRequest struct {
	Status string `json:"status" validate:"omitempty,max=40"`
}

// HandleCreateExport serves POST /api/v1/exports.
func (h *Handler) HandleCreateExport(c *gin.Context) {
	orgID, ok := httpkit.MustGetOrgID(c)
	if !ok {
		return
	}
	if h.exporter == nil {
		httpkit.Error(c, http.StatusNotImplemented, "exports are not configured")
		return
	}

	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "validation error")
			return
		}
	}

	result, err := h.exporter.Export(c.Request.Context(), orgID, req.Status)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
