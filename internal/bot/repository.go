// Package bot is the conversational core: the inbound event dedup ledger,
// the per-chat dialogue state machine and the Telegram webhook handler.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Dialogue modes. A chat is always in exactly one mode.
const (
	ModeIdle       = "IDLE"
	ModeOpenFlow   = "OPEN_FLOW"
	ModeUpdateFlow = "UPDATE_FLOW"
	ModeCloseFlow  = "CLOSE_FLOW"
)

// Mode-scoped steps.
const (
	StepAskEquipment = "ASK_EQUIP"
	StepAskSector    = "ASK_SETOR"
	StepAskProblem   = "ASK_PROBLEMA"
	StepAskStopped   = "ASK_PARADA"

	StepAskSolution    = "ASK_SOLUCAO"
	StepAskStart       = "ASK_INICIO"
	StepAskEnd         = "ASK_FIM"
	StepAskTechnicians = "ASK_TECNICOS"
	StepAskMaterials   = "ASK_MATERIAIS"
	StepAskCost        = "ASK_CUSTO"

	StepAskStatus = "ASK_STATUS"
	StepAskNote   = "ASK_OBS"
)

// ScratchField names a scratch column on the chat state row.
type ScratchField string

const (
	ScratchEquipment   ScratchField = "temp_equipment"
	ScratchSector      ScratchField = "temp_sector"
	ScratchProblem     ScratchField = "temp_problem"
	ScratchStopped     ScratchField = "temp_stopped"
	ScratchSolution    ScratchField = "temp_solution"
	ScratchStartHHMM   ScratchField = "temp_start_hhmm"
	ScratchEndHHMM     ScratchField = "temp_end_hhmm"
	ScratchTechnicians ScratchField = "temp_technicians"
	ScratchMaterials   ScratchField = "temp_materials"
	ScratchPartsCost   ScratchField = "temp_parts_cost"
	ScratchStatus      ScratchField = "temp_status"
)

// scratchColumns whitelists the columns UpdateScratch may touch.
var scratchColumns = map[ScratchField]bool{
	ScratchEquipment:   true,
	ScratchSector:      true,
	ScratchProblem:     true,
	ScratchStopped:     true,
	ScratchSolution:    true,
	ScratchStartHHMM:   true,
	ScratchEndHHMM:     true,
	ScratchTechnicians: true,
	ScratchMaterials:   true,
	ScratchPartsCost:   true,
	ScratchStatus:      true,
}

// ChatState is the per-chat session cursor: one row per chat, reset (never
// deleted) whenever a flow completes or is abandoned.
type ChatState struct {
	ChatID      string
	Mode        string
	Step        string
	WorkOrderID *int64

	Equipment   string
	Sector      string
	Problem     string
	Stopped     string
	Solution    string
	StartHHMM   string
	EndHHMM     string
	Technicians string
	Materials   string
	PartsCost   string
	Status      string

	UpdatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegisterEventIfNew atomically records an inbound event keyed by its dedup
// key. Returns true when this is the first time the key is seen; a
// unique violation means the event was already processed and yields
// (false, nil), never an error.
func (r *Repository) RegisterEventIfNew(ctx context.Context, dedupKey, chatID string, payload []byte) (bool, error) {
	_, err := r.pool.Exec(ctx, `
    INSERT INTO events (dedup_key, chat_id, payload)
    VALUES ($1, $2, $3)
  `, dedupKey, chatID, payload)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetExtractedText stores the free text carried by an already-registered
// event (extraction flow).
func (r *Repository) SetExtractedText(ctx context.Context, dedupKey, text string) error {
	_, err := r.pool.Exec(ctx, `
    UPDATE events SET extracted_text = $2 WHERE dedup_key = $1
  `, dedupKey, text)
	return err
}

// PruneEvents deletes dedup ledger rows older than the retention window and
// returns how many were removed. Run by the scheduler.
func (r *Repository) PruneEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
    DELETE FROM events WHERE created_at < now() - $1::interval
  `, olderThan.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const chatStateColumns = `
    chat_id, mode, step, work_order_id,
    temp_equipment, temp_sector, temp_problem, temp_stopped,
    temp_solution, temp_start_hhmm, temp_end_hhmm,
    temp_technicians, temp_materials, temp_parts_cost, temp_status,
    updated_at
  `

func scanChatState(row pgx.Row) (ChatState, error) {
	var st ChatState
	err := row.Scan(
		&st.ChatID, &st.Mode, &st.Step, &st.WorkOrderID,
		&st.Equipment, &st.Sector, &st.Problem, &st.Stopped,
		&st.Solution, &st.StartHHMM, &st.EndHHMM,
		&st.Technicians, &st.Materials, &st.PartsCost, &st.Status,
		&st.UpdatedAt,
	)
	return st, err
}

// GetOrCreate loads the chat state row, lazily creating an idle one on first
// contact from a chat.
func (r *Repository) GetOrCreate(ctx context.Context, chatID string) (ChatState, error) {
	row := r.pool.QueryRow(ctx, `
    INSERT INTO chat_states (chat_id)
    VALUES ($1)
    ON CONFLICT (chat_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
    RETURNING`+chatStateColumns, chatID)
	return scanChatState(row)
}

// SetState moves the chat to (mode, step, workOrderID). Whenever the mode
// changes, all scratch fields are cleared unconditionally so values from an
// abandoned flow can never leak into the next one.
func (r *Repository) SetState(ctx context.Context, chatID, mode, step string, workOrderID *int64) error {
	_, err := r.pool.Exec(ctx, setStateQuery, chatID, mode, step, workOrderID)
	return err
}

// All CASE expressions read the pre-update mode, so the comparison is
// against the state being left, not the one being entered.
const setStateQuery = `
    UPDATE chat_states SET
      temp_equipment   = CASE WHEN mode = $2 THEN temp_equipment   ELSE '' END,
      temp_sector      = CASE WHEN mode = $2 THEN temp_sector      ELSE '' END,
      temp_problem     = CASE WHEN mode = $2 THEN temp_problem     ELSE '' END,
      temp_stopped     = CASE WHEN mode = $2 THEN temp_stopped     ELSE '' END,
      temp_solution    = CASE WHEN mode = $2 THEN temp_solution    ELSE '' END,
      temp_start_hhmm  = CASE WHEN mode = $2 THEN temp_start_hhmm  ELSE '' END,
      temp_end_hhmm    = CASE WHEN mode = $2 THEN temp_end_hhmm    ELSE '' END,
      temp_technicians = CASE WHEN mode = $2 THEN temp_technicians ELSE '' END,
      temp_materials   = CASE WHEN mode = $2 THEN temp_materials   ELSE '' END,
      temp_parts_cost  = CASE WHEN mode = $2 THEN temp_parts_cost  ELSE '' END,
      temp_status      = CASE WHEN mode = $2 THEN temp_status      ELSE '' END,
      mode = $2,
      step = $3,
      work_order_id = $4,
      updated_at = now()
    WHERE chat_id = $1
  `

// UpdateScratch stores one collected answer without touching mode or step.
func (r *Repository) UpdateScratch(ctx context.Context, chatID string, field ScratchField, value string) error {
	if !scratchColumns[field] {
		return errors.New("unknown scratch field: " + string(field))
	}
	// The column name comes from the whitelist above, never from input.
	_, err := r.pool.Exec(ctx, `
    UPDATE chat_states SET `+string(field)+` = $2, updated_at = now()
    WHERE chat_id = $1
  `, chatID, value)
	return err
}

// Reset returns the chat to idle and wipes every scratch field. The row
// itself survives as the session cursor.
func (r *Repository) Reset(ctx context.Context, chatID string) error {
	return r.SetState(ctx, chatID, ModeIdle, "", nil)
}
