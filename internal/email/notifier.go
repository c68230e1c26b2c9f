package email

import (
	"context"
	"fmt"
	"strings"

	"easypcm_backend/internal/events"
	"easypcm_backend/platform/logger"
)

// Sender is what the notifier needs from a mail transport.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier mails a summary whenever a work order is closed. Delivery is
// best effort: a failed send is logged and never reaches the chat user.
type Notifier struct {
	sender Sender
	to     string
	logger *logger.Logger
}

func NewNotifier(sender Sender, to string, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, to: to, logger: log}
}

// Subscribe registers the notifier on the event bus.
func (n *Notifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.WorkOrderClosed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.WorkOrderClosed)
		if !ok {
			return nil
		}
		if err := n.sender.Send(ctx, n.to, closedSubject(e), closedBody(e)); err != nil {
			n.logger.Error("work order closed mail failed", "error", err, "work_order_id", e.WorkOrderID)
		}
		return nil
	}))
}

func closedSubject(e events.WorkOrderClosed) string {
	return fmt.Sprintf("OS #%d fechada - %s", e.WorkOrderID, e.Equipment)
}

func closedBody(e events.WorkOrderClosed) string {
	technicians := strings.Join(e.Technicians, ", ")
	if technicians == "" {
		technicians = "SEM INFORMAÇÃO"
	}
	return fmt.Sprintf(
		"OS #%d foi fechada.\n\nEquipamento: %s\nSetor: %s\nTempo (min): %d\nTécnicos: %s\nCusto peças: %s\nSolução: %s\n",
		e.WorkOrderID, e.Equipment, e.Sector, e.Minutes, technicians, e.PartsCost, e.Solution,
	)
}
