// Package repository provides data access for users, organizations,
// memberships and invites.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// ErrDuplicateToken is returned when an invite token collides with an
// existing one; the service retries generation.
var ErrDuplicateToken = errors.New("invite token already exists")

const pgUniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Organization struct {
	ID        int64
	Name      string
	Active    bool
	CreatedBy string
	CreatedAt time.Time
}

type User struct {
	TelegramUserID string
	Username       string
	FirstName      string
	IsMaster       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Membership struct {
	ID             int64
	OrganizationID int64
	UserID         string
	Role           string
	Active         bool
	CreatedAt      time.Time
}

type Invite struct {
	ID             uuid.UUID
	Token          string
	OrganizationID int64
	Role           string
	CreatedBy      string
	ExpiresAt      time.Time
	Active         bool
	UsedBy         *string
	UsedAt         *time.Time
	CreatedAt      time.Time
}

// UpsertUser inserts or merges a user record. Display fields are only
// overwritten by non-empty values and the master flag never reverts to false.
func (r *Repository) UpsertUser(ctx context.Context, telegramUserID, username, firstName string, isMaster bool) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
    INSERT INTO users (telegram_user_id, username, first_name, is_master)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (telegram_user_id) DO UPDATE SET
      username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE users.username END,
      first_name = CASE WHEN EXCLUDED.first_name <> '' THEN EXCLUDED.first_name ELSE users.first_name END,
      is_master = users.is_master OR EXCLUDED.is_master,
      updated_at = now()
    RETURNING telegram_user_id, username, first_name, is_master, created_at, updated_at
  `, telegramUserID, username, firstName, isMaster).Scan(
		&u.TelegramUserID, &u.Username, &u.FirstName, &u.IsMaster, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *Repository) CreateOrganization(ctx context.Context, name, createdBy string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
    INSERT INTO organizations (name, created_by)
    VALUES ($1, $2)
    RETURNING id, name, active, created_by, created_at
  `, name, createdBy).Scan(&org.ID, &org.Name, &org.Active, &org.CreatedBy, &org.CreatedAt)
	return org, err
}

func (r *Repository) GetOrganization(ctx context.Context, organizationID int64) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
    SELECT id, name, active, created_by, created_at
    FROM organizations
    WHERE id = $1
  `, organizationID).Scan(&org.ID, &org.Name, &org.Active, &org.CreatedBy, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

// CurrentOrgID resolves the user's current organization: the most recently
// created active membership wins.
func (r *Repository) CurrentOrgID(ctx context.Context, userID string) (int64, error) {
	var orgID int64
	err := r.pool.QueryRow(ctx, currentOrgQuery, userID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return orgID, err
}

const currentOrgQuery = `
    SELECT organization_id
    FROM org_users
    WHERE user_id = $1 AND active = true
    ORDER BY id DESC
    LIMIT 1
  `

// RoleInOrg returns the user's role within the organization, active
// memberships only.
func (r *Repository) RoleInOrg(ctx context.Context, userID string, organizationID int64) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
    SELECT role
    FROM org_users
    WHERE user_id = $1 AND organization_id = $2 AND active = true
  `, userID, organizationID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return role, err
}

// CreateInvite inserts a new invite row. A token collision surfaces as
// ErrDuplicateToken so the caller can regenerate.
func (r *Repository) CreateInvite(ctx context.Context, token string, organizationID int64, role, createdBy string, expiresAt time.Time) (Invite, error) {
	var inv Invite
	err := r.pool.QueryRow(ctx, `
    INSERT INTO invites (id, token, organization_id, role, created_by, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, token, organization_id, role, created_by, expires_at, active, used_by, used_at, created_at
  `, uuid.New(), token, organizationID, role, createdBy, expiresAt).Scan(
		&inv.ID, &inv.Token, &inv.OrganizationID, &inv.Role, &inv.CreatedBy,
		&inv.ExpiresAt, &inv.Active, &inv.UsedBy, &inv.UsedAt, &inv.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Invite{}, ErrDuplicateToken
	}
	return inv, err
}

func (r *Repository) GetInviteByToken(ctx context.Context, token string) (Invite, error) {
	var inv Invite
	err := r.pool.QueryRow(ctx, `
    SELECT id, token, organization_id, role, created_by, expires_at, active, used_by, used_at, created_at
    FROM invites
    WHERE token = $1
  `, token).Scan(
		&inv.ID, &inv.Token, &inv.OrganizationID, &inv.Role, &inv.CreatedBy,
		&inv.ExpiresAt, &inv.Active, &inv.UsedBy, &inv.UsedAt, &inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invite{}, ErrNotFound
	}
	return inv, err
}

// ConsumeInvite marks the invite used and grants the membership in one
// transaction. The mark-used update is conditional on the row still being
// unused, so exactly one of two concurrent consumers wins; the loser gets
// (false, nil).
func (r *Repository) ConsumeInvite(ctx context.Context, token, userID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var inv Invite
	err = tx.QueryRow(ctx, consumeInviteQuery, token, userID).Scan(&inv.OrganizationID, &inv.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race: someone else flipped the row first.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Re-consuming an invite for an organization the user already belongs to
	// reactivates and re-roles the existing membership, never duplicating it.
	_, err = tx.Exec(ctx, `
    INSERT INTO org_users (organization_id, user_id, role, active)
    VALUES ($1, $2, $3, true)
    ON CONFLICT (organization_id, user_id) DO UPDATE SET
      role = EXCLUDED.role,
      active = true
  `, inv.OrganizationID, userID, inv.Role)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

const consumeInviteQuery = `
    UPDATE invites
    SET active = false, used_by = $2, used_at = now()
    WHERE token = $1 AND active = true AND used_at IS NULL
    RETURNING organization_id, role
  `

// ExpireInvites deactivates every active invite past its expiry and returns
// how many were swept. Run by the scheduler.
func (r *Repository) ExpireInvites(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
    UPDATE invites
    SET active = false
    WHERE active = true AND expires_at < now()
  `)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
