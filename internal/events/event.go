// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"easypcm_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// OrganizationCreated is published when the master creates a new organization.
type OrganizationCreated struct {
	BaseEvent
	OrganizationID int64  `json:"organizationId"`
	Name           string `json:"name"`
	CreatedBy      string `json:"createdBy"`
}

func (e OrganizationCreated) EventName() string { return "identity.organization.created" }

// InviteCreated is published when an invite token is generated.
type InviteCreated struct {
	BaseEvent
	OrganizationID int64  `json:"organizationId"`
	Role           string `json:"role"`
	Token          string `json:"token"`
	CreatedBy      string `json:"createdBy"`
}

func (e InviteCreated) EventName() string { return "identity.invite.created" }

// InviteConsumed is published when a user joins an organization via invite.
type InviteConsumed struct {
	BaseEvent
	OrganizationID int64  `json:"organizationId"`
	UserID         string `json:"userId"`
	Role           string `json:"role"`
}

func (e InviteConsumed) EventName() string { return "identity.invite.consumed" }

// WorkOrderOpened is published after a work order is created.
type WorkOrderOpened struct {
	BaseEvent
	OrganizationID int64  `json:"organizationId"`
	WorkOrderID    int64  `json:"workOrderId"`
	Equipment      string `json:"equipment"`
	Sector         string `json:"sector"`
}

func (e WorkOrderOpened) EventName() string { return "workorder.opened" }

// WorkOrderStatusUpdated is published after a status update commits.
type WorkOrderStatusUpdated struct {
	BaseEvent
	OrganizationID int64  `json:"organizationId"`
	WorkOrderID    int64  `json:"workOrderId"`
	Status         string `json:"status"`
	Note           string `json:"note"`
}

func (e WorkOrderStatusUpdated) EventName() string { return "workorder.status_updated" }

// WorkOrderClosed is published after a work order transitions to closed.
// The email notifier subscribes to this event.
type WorkOrderClosed struct {
	BaseEvent
	OrganizationID int64    `json:"organizationId"`
	WorkOrderID    int64    `json:"workOrderId"`
	Equipment      string   `json:"equipment"`
	Sector         string   `json:"sector"`
	Solution       string   `json:"solution"`
	Minutes        int      `json:"minutes"`
	PartsCost      string   `json:"partsCost"`
	Technicians    []string `json:"technicians"`
}

func (e WorkOrderClosed) EventName() string { return "workorder.closed" }
