package bot

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easypcm_backend/internal/telegram"
	"easypcm_backend/platform/logger"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Handler receives Telegram webhook deliveries. It always answers 200 once
// the secret check passes: any other status makes Telegram redeliver, and
// redeliveries of a failed update are handled by the dedup ledger, not by
// the transport retrying forever.
type Handler struct {
	driver  *Driver
	deduper *Deduper
	secret  string
	logger  *logger.Logger
}

func NewHandler(driver *Driver, deduper *Deduper, secret string, log *logger.Logger) *Handler {
	return &Handler{driver: driver, deduper: deduper, secret: secret, logger: log}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/telegram/webhook", h.HandleWebhook)
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	if h.secret != "" && c.GetHeader(secretTokenHeader) != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("webhook body read failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	var upd telegram.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		h.logger.Warn("webhook payload not an update", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	ctx := c.Request.Context()
	chatID := upd.ChatID()

	if upd.UpdateID != nil {
		dedupKey := "upd:" + strconv.FormatInt(*upd.UpdateID, 10)
		seen, err := h.deduper.Seen(ctx, dedupKey, chatID, body)
		if err != nil {
			h.logger.Error("dedup check failed", "error", err, "dedup_key", dedupKey)
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		if seen {
			h.logger.DuplicateUpdate(dedupKey, chatID)
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
	}

	if err := h.driver.HandleUpdate(ctx, &upd); err != nil {
		h.logger.Error("update handling failed", "error", err, "chat_id", chatID)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
