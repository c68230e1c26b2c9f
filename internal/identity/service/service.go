// Package service implements identity and membership business rules:
// user upserts, organization creation, invite issuing and consumption.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"easypcm_backend/internal/events"
	"easypcm_backend/internal/identity/repository"
	"easypcm_backend/platform/apperr"
)

const (
	RoleOrgAdmin = "ORG_ADMIN"
	RoleOrgUser  = "ORG_USER"

	tokenPrefix      = "INV-"
	tokenLength      = 8
	tokenAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenMaxAttempts = 5
	organizationGone = "Empresa não encontrada."
)

// Invite consumption outcomes, each with its own wording. These are
// user-facing chat messages, not errors.
const (
	MsgInviteInvalid     = "Convite inválido. Confira o código e tente novamente."
	MsgInviteExpired     = "Convite expirado. Peça um novo código ao administrador."
	MsgInviteAlreadyUsed = "Convite já utilizado. Peça um novo código ao administrador."
	MsgInviteAccepted    = "Convite aceito! Bem-vindo(a)."
)

// Store is the identity persistence surface the service drives.
// *repository.Repository satisfies it.
type Store interface {
	UpsertUser(ctx context.Context, telegramUserID, username, firstName string, isMaster bool) (repository.User, error)
	CurrentOrgID(ctx context.Context, userID string) (int64, error)
	RoleInOrg(ctx context.Context, userID string, organizationID int64) (string, error)
	CreateOrganization(ctx context.Context, name, createdBy string) (repository.Organization, error)
	GetOrganization(ctx context.Context, organizationID int64) (repository.Organization, error)
	CreateInvite(ctx context.Context, token string, organizationID int64, role, createdBy string, expiresAt time.Time) (repository.Invite, error)
	GetInviteByToken(ctx context.Context, token string) (repository.Invite, error)
	ConsumeInvite(ctx context.Context, token, userID string) (bool, error)
}

type Service struct {
	repo     Store
	eventBus events.Bus
	ttlDays  int
	now      func() time.Time
}

func New(repo Store, eventBus events.Bus, inviteTTLDays int) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		ttlDays:  inviteTTLDays,
		now:      time.Now,
	}
}

// UpsertUser records the acting user on every inbound event.
func (s *Service) UpsertUser(ctx context.Context, telegramUserID, username, firstName string, isMaster bool) (repository.User, error) {
	return s.repo.UpsertUser(ctx, telegramUserID, username, firstName, isMaster)
}

// CurrentOrgID resolves the user's current organization. The second return
// is false when the user holds no active membership.
func (s *Service) CurrentOrgID(ctx context.Context, userID string) (int64, bool, error) {
	orgID, err := s.repo.CurrentOrgID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return orgID, true, nil
}

// RoleInOrg returns the user's role in the organization, or "" when the user
// is not an active member.
func (s *Service) RoleInOrg(ctx context.Context, userID string, orgID int64) (string, error) {
	role, err := s.repo.RoleInOrg(ctx, userID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return role, err
}

// CreateOrganization creates a new tenant. Master only.
func (s *Service) CreateOrganization(ctx context.Context, name, actorID string, actorIsMaster bool) (repository.Organization, error) {
	if !actorIsMaster {
		return repository.Organization{}, apperr.Forbidden("apenas o MASTER pode criar empresas")
	}

	trimmed := strings.Trim(strings.TrimSpace(name), `"`)
	if trimmed == "" {
		return repository.Organization{}, apperr.Validation("nome da empresa é obrigatório")
	}

	org, err := s.repo.CreateOrganization(ctx, trimmed, actorID)
	if err != nil {
		return repository.Organization{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OrganizationCreated{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: org.ID,
			Name:           org.Name,
			CreatedBy:      actorID,
		})
	}

	return org, nil
}

// GetOrganization fetches an organization; inactive ones are treated as gone.
func (s *Service) GetOrganization(ctx context.Context, orgID int64) (repository.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Organization{}, apperr.NotFound(organizationGone)
	}
	if err != nil {
		return repository.Organization{}, err
	}
	if !org.Active {
		return repository.Organization{}, apperr.Gone(organizationGone)
	}
	return org, nil
}

// CreateInvite issues a single-use invite for the organization. Token
// generation retries a bounded number of times on collision; repeated
// collision in a 36^8 code space is a systemic failure, not a user problem.
func (s *Service) CreateInvite(ctx context.Context, orgID int64, createdBy, role string) (repository.Invite, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return repository.Invite{}, err
	}

	expiresAt := s.now().UTC().Add(time.Duration(s.ttlDays) * 24 * time.Hour)

	for attempt := 0; attempt < tokenMaxAttempts; attempt++ {
		token, err := generateToken()
		if err != nil {
			return repository.Invite{}, err
		}

		inv, err := s.repo.CreateInvite(ctx, token, orgID, role, createdBy, expiresAt)
		if errors.Is(err, repository.ErrDuplicateToken) {
			continue
		}
		if err != nil {
			return repository.Invite{}, err
		}

		if s.eventBus != nil {
			s.eventBus.Publish(ctx, events.InviteCreated{
				BaseEvent:      events.NewBaseEvent(),
				OrganizationID: orgID,
				Role:           role,
				Token:          inv.Token,
				CreatedBy:      createdBy,
			})
		}

		return inv, nil
	}

	return repository.Invite{}, apperr.Internal("geração de token de convite esgotou as tentativas")
}

// ConsumeResult reports the outcome of an invite consumption attempt.
type ConsumeResult struct {
	OK             bool
	Message        string
	OrganizationID int64
	Role           string
}

// ConsumeInvite validates and redeems an invite token for the user.
// Validation order: existence, active flag, expiry, prior use, each with a
// distinct message. The final mark-used step is a conditional update, so two
// concurrent consumers cannot both win.
func (s *Service) ConsumeInvite(ctx context.Context, token, userID string) (ConsumeResult, error) {
	inv, err := s.repo.GetInviteByToken(ctx, strings.TrimSpace(token))
	if errors.Is(err, repository.ErrNotFound) {
		return ConsumeResult{Message: MsgInviteInvalid}, nil
	}
	if err != nil {
		return ConsumeResult{}, err
	}

	if inv.UsedAt != nil {
		return ConsumeResult{Message: MsgInviteAlreadyUsed}, nil
	}
	if !inv.Active {
		return ConsumeResult{Message: MsgInviteInvalid}, nil
	}
	// Stored timestamps without a zone are assumed UTC.
	if inv.ExpiresAt.UTC().Before(s.now().UTC()) {
		return ConsumeResult{Message: MsgInviteExpired}, nil
	}

	won, err := s.repo.ConsumeInvite(ctx, inv.Token, userID)
	if err != nil {
		return ConsumeResult{}, err
	}
	if !won {
		return ConsumeResult{Message: MsgInviteAlreadyUsed}, nil
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.InviteConsumed{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: inv.OrganizationID,
			UserID:         userID,
			Role:           inv.Role,
		})
	}

	return ConsumeResult{
		OK:             true,
		Message:        MsgInviteAccepted,
		OrganizationID: inv.OrganizationID,
		Role:           inv.Role,
	}, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	code := make([]byte, tokenLength)
	for i, b := range buf {
		code[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return tokenPrefix + string(code), nil
}
