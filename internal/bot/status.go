package bot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"easypcm_backend/internal/telegram"
	workorder "easypcm_backend/internal/workorder/service"
)

// DefaultStatusOptions is the built-in status menu for the update flow.
// Closed and cancelled are deliberately absent: closing goes through the
// close flow, which computes time and cost.
func DefaultStatusOptions() []telegram.StatusOption {
	return []telegram.StatusOption{
		{Label: "Aberta", Value: workorder.StatusOpen},
		{Label: "Em andamento", Value: workorder.StatusInProgress},
		{Label: "Aguardando compras", Value: workorder.StatusWaitingPurchase},
		{Label: "Aguardando TI", Value: workorder.StatusWaitingIT},
		{Label: "Aguardando segurança", Value: workorder.StatusWaitingSafety},
		{Label: "Aguardando parada", Value: workorder.StatusWaitingStoppage},
		{Label: "Aguardando terceiro", Value: workorder.StatusWaitingThirdParty},
		{Label: "Aguardando outros", Value: workorder.StatusWaitingOther},
	}
}

// LoadStatusOptions reads a YAML override of the status menu. An empty path
// or a missing file falls back to the defaults; a malformed file is an
// error, not a silent fallback.
func LoadStatusOptions(path string) ([]telegram.StatusOption, error) {
	if path == "" {
		return DefaultStatusOptions(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultStatusOptions(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read status menu file: %w", err)
	}
	var doc struct {
		Statuses []telegram.StatusOption `yaml:"statuses"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse status menu file %s: %w", path, err)
	}
	if len(doc.Statuses) == 0 {
		return DefaultStatusOptions(), nil
	}
	for i, opt := range doc.Statuses {
		if opt.Label == "" || opt.Value == "" {
			return nil, fmt.Errorf("status menu file %s: entry %d is missing label or value", path, i)
		}
	}
	return doc.Statuses, nil
}

// StatusSet answers whether a callback-chosen status value is one the menu
// offers. The store itself stays open to arbitrary strings; only the
// menu-driven selection is gated.
type StatusSet map[string]bool

func NewStatusSet(options []telegram.StatusOption) StatusSet {
	set := make(StatusSet, len(options))
	for _, opt := range options {
		set[opt.Value] = true
	}
	return set
}

func (s StatusSet) Allowed(value string) bool { return s[value] }
