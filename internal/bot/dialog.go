package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	identityrepo "easypcm_backend/internal/identity/repository"
	identity "easypcm_backend/internal/identity/service"
	"easypcm_backend/internal/telegram"
	workorderrepo "easypcm_backend/internal/workorder/repository"
	workorder "easypcm_backend/internal/workorder/service"
	"easypcm_backend/platform/apperr"
	"easypcm_backend/platform/logger"
)

const openListLimit = 10

// StateStore is the per-chat session persistence the driver runs on.
type StateStore interface {
	GetOrCreate(ctx context.Context, chatID string) (ChatState, error)
	SetState(ctx context.Context, chatID, mode, step string, workOrderID *int64) error
	UpdateScratch(ctx context.Context, chatID string, field ScratchField, value string) error
	Reset(ctx context.Context, chatID string) error
}

// WorkOrders is the slice of the lifecycle service the driver needs.
type WorkOrders interface {
	CreateOpen(ctx context.Context, orgID int64, chatID, equipment, sector, problem, stopped string) (workorderrepo.WorkOrder, error)
	CreateFromExtraction(ctx context.Context, orgID int64, chatID string, f workorder.ExtractedFields, sourceText string) (workorderrepo.WorkOrder, error)
	ListOpen(ctx context.Context, orgID int64, limit int) ([]workorderrepo.WorkOrder, error)
	Close(ctx context.Context, orgID, workOrderID int64, solution string, minutes int, partsCost string) (workorderrepo.WorkOrder, error)
	UpdateStatus(ctx context.Context, orgID, workOrderID int64, status, note string) (workorderrepo.WorkOrder, error)
	AddMaterials(ctx context.Context, workOrderID int64, descriptions []string) error
	ListMaterials(ctx context.Context, workOrderID int64) ([]string, error)
	AddTechnicians(ctx context.Context, workOrderID int64, names []string) ([]string, error)
	ListTechnicians(ctx context.Context, workOrderID int64) ([]string, error)
}

// Identity is the slice of the identity service the driver needs.
type Identity interface {
	UpsertUser(ctx context.Context, telegramUserID, username, firstName string, isMaster bool) (identityrepo.User, error)
	CurrentOrgID(ctx context.Context, userID string) (int64, bool, error)
	RoleInOrg(ctx context.Context, userID string, orgID int64) (string, error)
	CreateOrganization(ctx context.Context, name, actorID string, actorIsMaster bool) (identityrepo.Organization, error)
	GetOrganization(ctx context.Context, orgID int64) (identityrepo.Organization, error)
	CreateInvite(ctx context.Context, orgID int64, createdBy, role string) (identityrepo.Invite, error)
	ConsumeInvite(ctx context.Context, token, userID string) (identity.ConsumeResult, error)
}

// Extractor turns free-form technician narration into structured fields.
type Extractor interface {
	Extract(ctx context.Context, text string) (workorder.ExtractedFields, error)
}

// Driver is the dialogue state machine. One instance serves all chats; all
// per-chat data lives in the StateStore.
type Driver struct {
	states     StateStore
	workOrders WorkOrders
	identity   Identity
	extractor  Extractor
	sender     telegram.Sender
	statusMenu []telegram.StatusOption
	statusSet  StatusSet

	masterUserID  string
	inviteTTLDays int
	logger        *logger.Logger
}

type DriverConfig struct {
	MasterUserID  string
	InviteTTLDays int
	StatusMenu    []telegram.StatusOption
}

func NewDriver(
	states StateStore,
	workOrders WorkOrders,
	ident Identity,
	extractor Extractor,
	sender telegram.Sender,
	cfg DriverConfig,
	log *logger.Logger,
) *Driver {
	menu := cfg.StatusMenu
	if len(menu) == 0 {
		menu = DefaultStatusOptions()
	}
	return &Driver{
		states:        states,
		workOrders:    workOrders,
		identity:      ident,
		extractor:     extractor,
		sender:        sender,
		statusMenu:    menu,
		statusSet:     NewStatusSet(menu),
		masterUserID:  cfg.MasterUserID,
		inviteTTLDays: cfg.InviteTTLDays,
		logger:        log,
	}
}

// HandleUpdate processes one deduplicated inbound update. User-input
// problems are answered in chat and return nil; only infrastructure
// failures surface as errors.
func (d *Driver) HandleUpdate(ctx context.Context, upd *telegram.Update) error {
	if upd.CallbackQuery != nil {
		return d.handleCallback(ctx, upd)
	}
	msg := upd.EffectiveMessage()
	if msg == nil {
		return nil
	}
	return d.handleMessage(ctx, upd, msg)
}

func (d *Driver) isMaster(userID string) bool {
	return d.masterUserID != "" && userID == d.masterUserID
}

func (d *Driver) upsertSender(ctx context.Context, from *telegram.User) (userID string, master bool, err error) {
	if from == nil {
		return "", false, nil
	}
	userID = strconv.FormatInt(from.ID, 10)
	master = d.isMaster(userID)
	_, err = d.identity.UpsertUser(ctx, userID, from.Username, from.FirstName, master)
	return userID, master, err
}

// reply sends with the persistent main menu attached.
func (d *Driver) reply(ctx context.Context, chatID, text string) error {
	return d.sender.SendMessage(ctx, chatID, text, telegram.MainMenu())
}

// userMessage maps expected domain rejections (not found, forbidden, gone,
// validation) to their chat-facing text.
func userMessage(err error) (string, bool) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return "", false
	}
	switch appErr.Kind {
	case apperr.KindNotFound, apperr.KindForbidden, apperr.KindGone, apperr.KindValidation:
		return appErr.Message, true
	}
	return "", false
}

func summarize(wo workorderrepo.WorkOrder) telegram.WorkOrderItem {
	problem := []rune(wo.ProblemDescription)
	if len(problem) > 40 {
		problem = problem[:40]
	}
	return telegram.WorkOrderItem{
		ID:      wo.ID,
		Summary: fmt.Sprintf("%s - %s", wo.Equipment, strings.TrimSpace(string(problem))),
	}
}

// parseCommand splits "/entrar INV-ABC123" into ("/entrar", "INV-ABC123").
// Non-command text yields ("", "").
func parseCommand(text string) (cmd, arg string) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "/") {
		return "", ""
	}
	cmd, arg, _ = strings.Cut(t, " ")
	return strings.ToLower(strings.TrimSpace(cmd)), strings.TrimSpace(arg)
}

// ---------------------------------------------------------------------------
// Callbacks (inline button presses)
// ---------------------------------------------------------------------------

func (d *Driver) handleCallback(ctx context.Context, upd *telegram.Update) error {
	cb := upd.CallbackQuery
	chatID := upd.ChatID()
	if chatID == "" {
		return nil
	}

	st, err := d.states.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}

	userID, _, err := d.upsertSender(ctx, cb.From)
	if err != nil {
		return err
	}

	if _, ok, err := d.identity.CurrentOrgID(ctx, userID); err != nil {
		return err
	} else if !ok {
		return d.reply(ctx, chatID, MsgNotInOrg)
	}

	data := cb.Data

	if rest, found := strings.CutPrefix(data, telegram.CallbackClosePrefix); found {
		osID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return d.reply(ctx, chatID, MsgUnknownAction)
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskSolution, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseIntro(osID))
	}

	if rest, found := strings.CutPrefix(data, telegram.CallbackUpdatePrefix); found {
		osID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return d.reply(ctx, chatID, MsgUnknownAction)
		}
		if err := d.states.SetState(ctx, chatID, ModeUpdateFlow, StepAskStatus, &osID); err != nil {
			return err
		}
		return d.sender.SendMessage(ctx, chatID, MsgUpdateIntro(osID), telegram.StatusMenu(d.statusMenu))
	}

	if value, found := strings.CutPrefix(data, telegram.CallbackStatusPrefix); found {
		if st.Mode != ModeUpdateFlow || st.Step != StepAskStatus || st.WorkOrderID == nil {
			return d.reply(ctx, chatID, MsgUnknownAction)
		}
		if !d.statusSet.Allowed(value) {
			return d.reply(ctx, chatID, MsgUnknownAction)
		}
		if err := d.states.UpdateScratch(ctx, chatID, ScratchStatus, value); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeUpdateFlow, StepAskNote, st.WorkOrderID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgUpdateAskObs)
	}

	return d.reply(ctx, chatID, MsgUnknownAction)
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func (d *Driver) handleMessage(ctx context.Context, upd *telegram.Update, msg *telegram.Message) error {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	text := strings.TrimSpace(msg.Text)

	userID, master, err := d.upsertSender(ctx, msg.From)
	if err != nil {
		return err
	}

	if !upd.IsPrivate() {
		return d.reply(ctx, chatID, MsgPrivateOnly)
	}

	st, err := d.states.GetOrCreate(ctx, chatID)
	if err != nil {
		return err
	}

	cmd, arg := parseCommand(text)
	switch cmd {
	case "/entrar":
		return d.cmdJoin(ctx, chatID, userID, arg)
	case "/criar_empresa":
		return d.cmdCreateOrg(ctx, chatID, userID, master, arg)
	case "/invite_admin":
		return d.cmdInviteAdmin(ctx, chatID, userID, master, arg)
	case "/invite_user":
		return d.cmdInviteUser(ctx, chatID, userID)
	case "/registrar":
		return d.cmdRegister(ctx, chatID, userID, arg)
	}

	orgID, inOrg, err := d.identity.CurrentOrgID(ctx, userID)
	if err != nil {
		return err
	}
	if !inOrg {
		return d.reply(ctx, chatID, MsgNotInOrgFull)
	}

	switch text {
	case telegram.CmdMenu1, telegram.CmdMenu2, telegram.CmdMenu3, telegram.BtnConsult:
		return d.reply(ctx, chatID, MsgMenuTitle)
	case telegram.CmdOpen, telegram.BtnOpen:
		if err := d.states.SetState(ctx, chatID, ModeOpenFlow, StepAskEquipment, nil); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgOpenStart)
	case telegram.CmdClose, telegram.BtnClose:
		return d.pickWorkOrder(ctx, chatID, orgID, MsgNoOpenOSToClose, MsgClosePickOS, telegram.CloseMenu)
	case telegram.CmdUpdate, telegram.BtnUpdate:
		return d.pickWorkOrder(ctx, chatID, orgID, MsgNoOpenOSToUpdate, MsgUpdatePickOS, telegram.UpdateMenu)
	}

	switch st.Mode {
	case ModeOpenFlow:
		return d.stepOpenFlow(ctx, chatID, orgID, st, text)
	case ModeUpdateFlow:
		return d.stepUpdateFlow(ctx, chatID, orgID, st, text)
	case ModeCloseFlow:
		return d.stepCloseFlow(ctx, chatID, orgID, st, text)
	}

	return d.reply(ctx, chatID, MsgUnknownCommand)
}

func (d *Driver) pickWorkOrder(
	ctx context.Context,
	chatID string,
	orgID int64,
	emptyMsg, pickMsg string,
	menu func([]telegram.WorkOrderItem) *telegram.ReplyMarkup,
) error {
	open, err := d.workOrders.ListOpen(ctx, orgID, openListLimit)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		return d.reply(ctx, chatID, emptyMsg)
	}
	items := make([]telegram.WorkOrderItem, 0, len(open))
	for _, wo := range open {
		items = append(items, summarize(wo))
	}
	return d.sender.SendMessage(ctx, chatID, pickMsg, menu(items))
}

// ---------------------------------------------------------------------------
// Org and invite commands
// ---------------------------------------------------------------------------

func (d *Driver) cmdJoin(ctx context.Context, chatID, userID, token string) error {
	if token == "" {
		return d.reply(ctx, chatID, MsgJoinUsage)
	}
	res, err := d.identity.ConsumeInvite(ctx, token, userID)
	if err != nil {
		return err
	}
	if !res.OK {
		return d.reply(ctx, chatID, res.Message)
	}
	orgName := "Empresa"
	if org, err := d.identity.GetOrganization(ctx, res.OrganizationID); err == nil {
		orgName = org.Name
	}
	return d.reply(ctx, chatID, MsgJoined(res.Message, orgName, res.Role))
}

func (d *Driver) cmdCreateOrg(ctx context.Context, chatID, userID string, master bool, arg string) error {
	if !master {
		return d.reply(ctx, chatID, MsgCreateOrgDenied)
	}
	name := strings.Trim(strings.TrimSpace(arg), `"`)
	if name == "" {
		return d.reply(ctx, chatID, MsgCreateOrgUsage)
	}
	org, err := d.identity.CreateOrganization(ctx, name, userID, master)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			return d.reply(ctx, chatID, msg)
		}
		return err
	}
	if err := d.reply(ctx, chatID, MsgOrgCreated(org.ID, org.Name)); err != nil {
		return err
	}
	return d.reply(ctx, chatID, MsgOrgCreatedNext(org.ID))
}

func (d *Driver) cmdInviteAdmin(ctx context.Context, chatID, userID string, master bool, arg string) error {
	if !master {
		return d.reply(ctx, chatID, MsgInviteAdminOnly)
	}
	orgID, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || orgID <= 0 {
		return d.reply(ctx, chatID, MsgInviteAdminUsage)
	}
	if _, err := d.identity.GetOrganization(ctx, orgID); err != nil {
		if msg, ok := userMessage(err); ok {
			return d.reply(ctx, chatID, msg)
		}
		return err
	}
	inv, err := d.identity.CreateInvite(ctx, orgID, userID, identity.RoleOrgAdmin)
	if err != nil {
		return err
	}
	if err := d.reply(ctx, chatID, MsgAdminInviteCreated(d.inviteTTLDays, inv.Token)); err != nil {
		return err
	}
	d.sendInviteQR(ctx, chatID, inv.Token)
	return nil
}

func (d *Driver) cmdInviteUser(ctx context.Context, chatID, userID string) error {
	orgID, ok, err := d.identity.CurrentOrgID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return d.reply(ctx, chatID, MsgNotInOrg)
	}
	role, err := d.identity.RoleInOrg(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if role != identity.RoleOrgAdmin {
		return d.reply(ctx, chatID, MsgInviteUserDenied)
	}
	inv, err := d.identity.CreateInvite(ctx, orgID, userID, identity.RoleOrgUser)
	if err != nil {
		return err
	}
	if err := d.reply(ctx, chatID, MsgUserInviteCreated(d.inviteTTLDays, inv.Token)); err != nil {
		return err
	}
	d.sendInviteQR(ctx, chatID, inv.Token)
	return nil
}

// sendInviteQR sends the join command as a QR image. Best effort: the token
// was already delivered as text.
func (d *Driver) sendInviteQR(ctx context.Context, chatID, token string) {
	png, err := qrcode.Encode("/entrar "+token, qrcode.Medium, 256)
	if err != nil {
		d.logger.Warn("invite qr encode failed", "error", err)
		return
	}
	if err := d.sender.SendPhoto(ctx, chatID, png, "/entrar "+token); err != nil {
		d.logger.Warn("invite qr send failed", "error", err)
	}
}

// cmdRegister runs the free-text extraction path: one message, one work
// order, no dialogue.
func (d *Driver) cmdRegister(ctx context.Context, chatID, userID, narration string) error {
	orgID, ok, err := d.identity.CurrentOrgID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return d.reply(ctx, chatID, MsgNotInOrgFull)
	}
	if d.extractor == nil {
		return d.reply(ctx, chatID, MsgExtractionDisabled)
	}
	if narration == "" {
		return d.reply(ctx, chatID, MsgRegisterUsage)
	}

	fields, err := d.extractor.Extract(ctx, narration)
	if err != nil {
		d.logger.Error("extraction failed", "error", err, "chat_id", chatID)
		return d.reply(ctx, chatID, MsgExtractionFailed)
	}

	wo, err := d.workOrders.CreateFromExtraction(ctx, orgID, chatID, fields, narration)
	if err != nil {
		return err
	}
	return d.reply(ctx, chatID, MsgExtractedDone(wo.ID, fields))
}

// ---------------------------------------------------------------------------
// OPEN_FLOW
// ---------------------------------------------------------------------------

func (d *Driver) stepOpenFlow(ctx context.Context, chatID string, orgID int64, st ChatState, text string) error {
	switch st.Step {
	case StepAskEquipment:
		if err := d.states.UpdateScratch(ctx, chatID, ScratchEquipment, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeOpenFlow, StepAskSector, nil); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgAskSector)

	case StepAskSector:
		if text == "" {
			return d.reply(ctx, chatID, MsgSectorMissing)
		}
		if err := d.states.UpdateScratch(ctx, chatID, ScratchSector, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeOpenFlow, StepAskProblem, nil); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgAskProblem)

	case StepAskProblem:
		if err := d.states.UpdateScratch(ctx, chatID, ScratchProblem, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeOpenFlow, StepAskStopped, nil); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgAskStopped)

	case StepAskStopped:
		stopped := strings.ToUpper(text)
		if stopped != "SIM" && stopped != "NAO" && stopped != "NÃO" {
			return d.reply(ctx, chatID, MsgStoppedBad)
		}
		wo, err := d.workOrders.CreateOpen(ctx, orgID, chatID, st.Equipment, st.Sector, st.Problem, stopped)
		if err != nil {
			return err
		}
		if err := d.states.Reset(ctx, chatID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgOpenDone(wo.ID, wo.Equipment, wo.Sector, wo.Stopped, wo.ProblemDescription))
	}
	return d.reply(ctx, chatID, MsgUnknownCommand)
}

// ---------------------------------------------------------------------------
// UPDATE_FLOW
// ---------------------------------------------------------------------------

func (d *Driver) stepUpdateFlow(ctx context.Context, chatID string, orgID int64, st ChatState, text string) error {
	if st.Step != StepAskNote || st.WorkOrderID == nil {
		return d.reply(ctx, chatID, MsgUnknownCommand)
	}
	note := text
	if strings.ToUpper(text) == "PULAR" {
		note = ""
	}
	wo, err := d.workOrders.UpdateStatus(ctx, orgID, *st.WorkOrderID, st.Status, note)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			if resetErr := d.states.Reset(ctx, chatID); resetErr != nil {
				return resetErr
			}
			return d.reply(ctx, chatID, msg)
		}
		return err
	}
	if err := d.states.Reset(ctx, chatID); err != nil {
		return err
	}
	return d.reply(ctx, chatID, MsgUpdateDone(wo.ID, wo.Status, wo.StatusNote))
}

// ---------------------------------------------------------------------------
// CLOSE_FLOW
// ---------------------------------------------------------------------------

func (d *Driver) stepCloseFlow(ctx context.Context, chatID string, orgID int64, st ChatState, text string) error {
	if st.WorkOrderID == nil {
		return d.reply(ctx, chatID, MsgUnknownCommand)
	}
	osID := *st.WorkOrderID

	switch st.Step {
	case StepAskSolution:
		if err := d.states.UpdateScratch(ctx, chatID, ScratchSolution, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskStart, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseAskStart)

	case StepAskStart:
		if total, ok := ParseTotalDuration(text); ok {
			if err := d.states.UpdateScratch(ctx, chatID, ScratchStartHHMM, fmt.Sprintf("TOTAL:%d", total)); err != nil {
				return err
			}
			if err := d.states.UpdateScratch(ctx, chatID, ScratchEndHHMM, ""); err != nil {
				return err
			}
			if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskTechnicians, &osID); err != nil {
				return err
			}
			return d.reply(ctx, chatID, MsgCloseAskTechs)
		}
		if _, ok := ParseHHMM(text); !ok {
			return d.reply(ctx, chatID, MsgCloseStartBad)
		}
		if err := d.states.UpdateScratch(ctx, chatID, ScratchStartHHMM, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskEnd, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseAskEnd)

	case StepAskEnd:
		if _, ok := ParseHHMM(text); !ok {
			return d.reply(ctx, chatID, MsgCloseEndBad)
		}
		if err := d.states.UpdateScratch(ctx, chatID, ScratchEndHHMM, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskTechnicians, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseAskTechs)

	case StepAskTechnicians:
		if err := d.states.UpdateScratch(ctx, chatID, ScratchTechnicians, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskMaterials, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseAskMaterials)

	case StepAskMaterials:
		if err := d.states.UpdateScratch(ctx, chatID, ScratchMaterials, text); err != nil {
			return err
		}
		if err := d.states.SetState(ctx, chatID, ModeCloseFlow, StepAskCost, &osID); err != nil {
			return err
		}
		return d.reply(ctx, chatID, MsgCloseAskCost)

	case StepAskCost:
		return d.finishClose(ctx, chatID, orgID, osID, st, text)
	}
	return d.reply(ctx, chatID, MsgUnknownCommand)
}

func (d *Driver) finishClose(ctx context.Context, chatID string, orgID, osID int64, st ChatState, costText string) error {
	// Last answer lands in scratch like the earlier ones, so a failed close
	// attempt can be retried without re-asking the whole flow.
	if err := d.states.UpdateScratch(ctx, chatID, ScratchPartsCost, costText); err != nil {
		return err
	}
	cost := SafeFloatString(costText)

	minutes := 0
	if rest, found := strings.CutPrefix(st.StartHHMM, "TOTAL:"); found {
		if n, err := strconv.Atoi(rest); err == nil {
			minutes = n
		}
	} else {
		start, okStart := ParseHHMM(st.StartHHMM)
		end, okEnd := ParseHHMM(st.EndHHMM)
		if okStart && okEnd {
			minutes = ElapsedMinutes(start, end)
		}
	}

	if names := ParseNameList(st.Technicians); len(names) > 0 {
		if _, err := d.workOrders.AddTechnicians(ctx, osID, names); err != nil {
			return err
		}
	}
	if materials := ParseMaterialsList(st.Materials); len(materials) > 0 {
		if err := d.workOrders.AddMaterials(ctx, osID, materials); err != nil {
			return err
		}
	}

	wo, err := d.workOrders.Close(ctx, orgID, osID, st.Solution, minutes, cost)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			if resetErr := d.states.Reset(ctx, chatID); resetErr != nil {
				return resetErr
			}
			return d.reply(ctx, chatID, msg)
		}
		return err
	}

	technicians, err := d.workOrders.ListTechnicians(ctx, osID)
	if err != nil {
		return err
	}
	materials, err := d.workOrders.ListMaterials(ctx, osID)
	if err != nil {
		return err
	}

	if err := d.states.Reset(ctx, chatID); err != nil {
		return err
	}
	return d.reply(ctx, chatID, MsgCloseDone(
		wo.ID, wo.Equipment, wo.Sector, wo.TimeSpentMinutes,
		FormatTechnicians(technicians), FormatMaterials(materials),
		wo.PartsCost, wo.SolutionApplied,
	))
}
