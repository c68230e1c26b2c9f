package telegram

import "fmt"

// Main-menu button labels and the typed command equivalents.
const (
	BtnOpen    = "Abrir OS"
	BtnUpdate  = "Atualizar OS"
	BtnClose   = "Fechar OS"
	BtnConsult = "Consultar OS"

	CmdOpen   = "/abrir"
	CmdUpdate = "/atualizar"
	CmdClose  = "/fechar"
	CmdMenu1  = "/menu"
	CmdMenu2  = "/opcoes"
	CmdMenu3  = "/opções"
)

// Callback payload prefixes for discrete choice interactions.
const (
	CallbackClosePrefix  = "close:"
	CallbackUpdatePrefix = "update:"
	CallbackStatusPrefix = "status:"
)

// ReplyMarkup is the union of Telegram keyboard markups; exactly one of the
// fields is set.
type ReplyMarkup struct {
	Keyboard              [][]string    `json:"keyboard,omitempty"`
	ResizeKeyboard        bool          `json:"resize_keyboard,omitempty"`
	IsPersistent          bool          `json:"is_persistent,omitempty"`
	InputFieldPlaceholder string        `json:"input_field_placeholder,omitempty"`
	InlineKeyboard        [][]InlineBtn `json:"inline_keyboard,omitempty"`
}

// InlineBtn is one inline keyboard button.
type InlineBtn struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// MainMenu returns the persistent reply keyboard with the four top-level actions.
func MainMenu() *ReplyMarkup {
	return &ReplyMarkup{
		Keyboard: [][]string{
			{BtnOpen, BtnUpdate},
			{BtnClose, BtnConsult},
		},
		ResizeKeyboard:        true,
		IsPersistent:          true,
		InputFieldPlaceholder: "Escolha uma opção abaixo",
	}
}

// WorkOrderItem is one selectable work order in an inline keyboard.
type WorkOrderItem struct {
	ID      int64
	Summary string
}

// CloseMenu builds the inline keyboard for picking a work order to close.
func CloseMenu(items []WorkOrderItem) *ReplyMarkup {
	return workOrderMenu(CallbackClosePrefix, items)
}

// UpdateMenu builds the inline keyboard for picking a work order to update.
func UpdateMenu(items []WorkOrderItem) *ReplyMarkup {
	return workOrderMenu(CallbackUpdatePrefix, items)
}

func workOrderMenu(prefix string, items []WorkOrderItem) *ReplyMarkup {
	buttons := make([][]InlineBtn, 0, len(items))
	for _, item := range items {
		buttons = append(buttons, []InlineBtn{{
			Text:         fmt.Sprintf("#%d - %s", item.ID, item.Summary),
			CallbackData: fmt.Sprintf("%s%d", prefix, item.ID),
		}})
	}
	return &ReplyMarkup{InlineKeyboard: buttons}
}

// StatusOption is one status-menu entry: the label shown on the button and
// the value persisted to the store.
type StatusOption struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// StatusMenu builds the inline keyboard for picking a target status.
func StatusMenu(options []StatusOption) *ReplyMarkup {
	buttons := make([][]InlineBtn, 0, len(options))
	for _, opt := range options {
		buttons = append(buttons, []InlineBtn{{
			Text:         opt.Label,
			CallbackData: CallbackStatusPrefix + opt.Value,
		}})
	}
	return &ReplyMarkup{InlineKeyboard: buttons}
}
