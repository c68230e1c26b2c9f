// Package bot wires the conversational bounded context: dedup gate, chat
// state, dialogue driver and webhook handler.
package bot

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"easypcm_backend/internal/telegram"
	"easypcm_backend/platform/config"
	"easypcm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module assembles the bot context. The identity and work-order services
// are shared with other modules and injected rather than built here.
type Module struct {
	handler *Handler
	driver  *Driver
	repo    *Repository
}

func NewModule(
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	ident Identity,
	workOrders WorkOrders,
	extractor Extractor,
	sender telegram.Sender,
	cfg *config.Config,
	log *logger.Logger,
) (*Module, error) {
	statusMenu, err := LoadStatusOptions(cfg.GetStatusMenuFile())
	if err != nil {
		return nil, err
	}

	repo := NewRepository(pool)
	deduper := NewDeduper(repo, redisClient, cfg.GetDedupCacheTTL(), log)
	driver := NewDriver(repo, workOrders, ident, extractor, sender, DriverConfig{
		MasterUserID:  cfg.GetMasterUserID(),
		InviteTTLDays: cfg.GetInviteTTLDays(),
		StatusMenu:    statusMenu,
	}, log)
	handler := NewHandler(driver, deduper, cfg.GetTelegramWebhookSecret(), log)

	return &Module{handler: handler, driver: driver, repo: repo}, nil
}

func (m *Module) RegisterRoutes(r gin.IRouter) {
	m.handler.RegisterRoutes(r)
}

// Repository exposes the bot repository for the scheduler's event pruning.
func (m *Module) Repository() *Repository { return m.repo }
