package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"easypcm_backend/platform/logger"
)

func newWebhookHarness(t *testing.T, secret string, ledger *fakeEventRegister) (*gin.Engine, *harness) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := newHarness()
	deduper := NewDeduper(ledger, nil, time.Hour, logger.New("development"))
	handler := NewHandler(h.driver, deduper, secret, logger.New("development"))

	engine := gin.New()
	handler.RegisterRoutes(engine)
	return engine, h
}

func postWebhook(engine *gin.Engine, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const webhookUpdate = `{
	"update_id": 77,
	"message": {
		"message_id": 1,
		"from": {"id": 100, "username": "joao", "first_name": "João"},
		"chat": {"id": 500, "type": "private"},
		"text": "/menu"
	}
}`

func TestWebhook_RejectsBadSecret(t *testing.T) {
	engine, h := newWebhookHarness(t, "s3cret", &fakeEventRegister{fresh: true})

	w := postWebhook(engine, "wrong", webhookUpdate)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(h.sender.messages) != 0 {
		t.Fatal("rejected delivery must not reach the driver")
	}
}

func TestWebhook_ProcessesFreshUpdate(t *testing.T) {
	engine, h := newWebhookHarness(t, "s3cret", &fakeEventRegister{fresh: true})

	w := postWebhook(engine, "s3cret", webhookUpdate)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := h.sender.last(t).text; got != MsgMenuTitle {
		t.Fatalf("expected menu reply, got %q", got)
	}
}

func TestWebhook_SkipsDuplicateUpdate(t *testing.T) {
	engine, h := newWebhookHarness(t, "s3cret", &fakeEventRegister{fresh: false})

	w := postWebhook(engine, "s3cret", webhookUpdate)

	if w.Code != http.StatusOK {
		t.Fatalf("duplicates still answer 200, got %d", w.Code)
	}
	if len(h.sender.messages) != 0 {
		t.Fatal("duplicate delivery must not reach the driver")
	}
}

func TestWebhook_IgnoresMalformedPayload(t *testing.T) {
	engine, h := newWebhookHarness(t, "", &fakeEventRegister{fresh: true})

	w := postWebhook(engine, "", "{not json")

	if w.Code != http.StatusOK {
		t.Fatalf("malformed payloads still answer 200, got %d", w.Code)
	}
	if len(h.sender.messages) != 0 {
		t.Fatal("malformed delivery must not reach the driver")
	}
}
