package bot

import (
	"context"
	"strings"
	"testing"

	identityrepo "easypcm_backend/internal/identity/repository"
	identity "easypcm_backend/internal/identity/service"
	"easypcm_backend/internal/telegram"
	workorderrepo "easypcm_backend/internal/workorder/repository"
	workorder "easypcm_backend/internal/workorder/service"
	"easypcm_backend/platform/logger"
)

// ---------------------------------------------------------------------------
// In-memory fakes
// ---------------------------------------------------------------------------

type fakeStates struct {
	m       map[string]ChatState
	written []ScratchField
}

func newFakeStates() *fakeStates { return &fakeStates{m: map[string]ChatState{}} }

func (f *fakeStates) GetOrCreate(_ context.Context, chatID string) (ChatState, error) {
	st, ok := f.m[chatID]
	if !ok {
		st = ChatState{ChatID: chatID, Mode: ModeIdle}
		f.m[chatID] = st
	}
	return st, nil
}

func (f *fakeStates) SetState(_ context.Context, chatID, mode, step string, workOrderID *int64) error {
	st := f.m[chatID]
	if st.Mode != mode {
		st = ChatState{ChatID: chatID}
	}
	st.Mode = mode
	st.Step = step
	st.WorkOrderID = workOrderID
	f.m[chatID] = st
	return nil
}

func (f *fakeStates) UpdateScratch(_ context.Context, chatID string, field ScratchField, value string) error {
	f.written = append(f.written, field)
	st := f.m[chatID]
	switch field {
	case ScratchEquipment:
		st.Equipment = value
	case ScratchSector:
		st.Sector = value
	case ScratchProblem:
		st.Problem = value
	case ScratchStopped:
		st.Stopped = value
	case ScratchSolution:
		st.Solution = value
	case ScratchStartHHMM:
		st.StartHHMM = value
	case ScratchEndHHMM:
		st.EndHHMM = value
	case ScratchTechnicians:
		st.Technicians = value
	case ScratchMaterials:
		st.Materials = value
	case ScratchPartsCost:
		st.PartsCost = value
	case ScratchStatus:
		st.Status = value
	}
	f.m[chatID] = st
	return nil
}

func (f *fakeStates) Reset(ctx context.Context, chatID string) error {
	return f.SetState(ctx, chatID, ModeIdle, "", nil)
}

type closeCall struct {
	workOrderID int64
	solution    string
	minutes     int
	partsCost   string
}

type statusCall struct {
	workOrderID int64
	status      string
	note        string
}

type fakeWorkOrders struct {
	nextID      int64
	open        []workorderrepo.WorkOrder
	created     []workorderrepo.WorkOrder
	technicians map[int64][]string
	materials   map[int64][]string
	closes      []closeCall
	statuses    []statusCall
}

func newFakeWorkOrders() *fakeWorkOrders {
	return &fakeWorkOrders{
		nextID:      1,
		technicians: map[int64][]string{},
		materials:   map[int64][]string{},
	}
}

func (f *fakeWorkOrders) CreateOpen(_ context.Context, orgID int64, chatID, equipment, sector, problem, stopped string) (workorderrepo.WorkOrder, error) {
	wo := workorderrepo.WorkOrder{
		ID:                 f.nextID,
		OrganizationID:     orgID,
		ChatID:             chatID,
		Equipment:          equipment,
		Sector:             sector,
		ProblemDescription: problem,
		Stopped:            stopped,
		Status:             workorder.StatusOpen,
	}
	f.nextID++
	f.created = append(f.created, wo)
	f.open = append(f.open, wo)
	return wo, nil
}

func (f *fakeWorkOrders) CreateFromExtraction(_ context.Context, orgID int64, chatID string, fields workorder.ExtractedFields, sourceText string) (workorderrepo.WorkOrder, error) {
	wo := workorderrepo.WorkOrder{
		ID:             f.nextID,
		OrganizationID: orgID,
		ChatID:         chatID,
		Equipment:      fields.Equipment,
		SourceText:     sourceText,
		Status:         workorder.StatusOpen,
	}
	f.nextID++
	f.created = append(f.created, wo)
	return wo, nil
}

func (f *fakeWorkOrders) ListOpen(_ context.Context, _ int64, _ int) ([]workorderrepo.WorkOrder, error) {
	return f.open, nil
}

func (f *fakeWorkOrders) Close(_ context.Context, orgID, workOrderID int64, solution string, minutes int, partsCost string) (workorderrepo.WorkOrder, error) {
	f.closes = append(f.closes, closeCall{workOrderID, solution, minutes, partsCost})
	return workorderrepo.WorkOrder{
		ID:               workOrderID,
		OrganizationID:   orgID,
		Equipment:        "Bomba 3",
		Sector:           "Utilidades",
		Status:           workorder.StatusClosed,
		SolutionApplied:  solution,
		TimeSpentMinutes: minutes,
		PartsCost:        partsCost,
	}, nil
}

func (f *fakeWorkOrders) UpdateStatus(_ context.Context, orgID, workOrderID int64, status, note string) (workorderrepo.WorkOrder, error) {
	f.statuses = append(f.statuses, statusCall{workOrderID, status, note})
	return workorderrepo.WorkOrder{
		ID:             workOrderID,
		OrganizationID: orgID,
		Status:         status,
		StatusNote:     note,
	}, nil
}

func (f *fakeWorkOrders) AddMaterials(_ context.Context, workOrderID int64, descriptions []string) error {
	f.materials[workOrderID] = append(f.materials[workOrderID], descriptions...)
	return nil
}

func (f *fakeWorkOrders) ListMaterials(_ context.Context, workOrderID int64) ([]string, error) {
	return f.materials[workOrderID], nil
}

func (f *fakeWorkOrders) AddTechnicians(_ context.Context, workOrderID int64, names []string) ([]string, error) {
	f.technicians[workOrderID] = append(f.technicians[workOrderID], names...)
	return names, nil
}

func (f *fakeWorkOrders) ListTechnicians(_ context.Context, workOrderID int64) ([]string, error) {
	return f.technicians[workOrderID], nil
}

type fakeIdentity struct {
	orgByUser map[string]int64
	roles     map[string]string
	invites   []identityrepo.Invite
	consume   identity.ConsumeResult
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{orgByUser: map[string]int64{}, roles: map[string]string{}}
}

func (f *fakeIdentity) UpsertUser(_ context.Context, telegramUserID, username, firstName string, _ bool) (identityrepo.User, error) {
	return identityrepo.User{}, nil
}

func (f *fakeIdentity) CurrentOrgID(_ context.Context, userID string) (int64, bool, error) {
	orgID, ok := f.orgByUser[userID]
	return orgID, ok, nil
}

func (f *fakeIdentity) RoleInOrg(_ context.Context, userID string, _ int64) (string, error) {
	return f.roles[userID], nil
}

func (f *fakeIdentity) CreateOrganization(_ context.Context, name, _ string, _ bool) (identityrepo.Organization, error) {
	return identityrepo.Organization{ID: 42, Name: name}, nil
}

func (f *fakeIdentity) GetOrganization(_ context.Context, orgID int64) (identityrepo.Organization, error) {
	return identityrepo.Organization{ID: orgID, Name: "Metalúrgica Aurora"}, nil
}

func (f *fakeIdentity) CreateInvite(_ context.Context, orgID int64, createdBy, role string) (identityrepo.Invite, error) {
	inv := identityrepo.Invite{Token: "INV-TEST01", OrganizationID: orgID, Role: role}
	f.invites = append(f.invites, inv)
	return inv, nil
}

func (f *fakeIdentity) ConsumeInvite(_ context.Context, _, _ string) (identity.ConsumeResult, error) {
	return f.consume, nil
}

type sentMessage struct {
	chatID string
	text   string
	markup *telegram.ReplyMarkup
}

type fakeSender struct {
	messages []sentMessage
	photos   int
}

func (f *fakeSender) SendMessage(_ context.Context, chatID, text string, markup *telegram.ReplyMarkup) error {
	f.messages = append(f.messages, sentMessage{chatID, text, markup})
	return nil
}

func (f *fakeSender) SendPhoto(_ context.Context, chatID string, _ []byte, _ string) error {
	f.photos++
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	if len(f.messages) == 0 {
		t.Fatal("no message sent")
	}
	return f.messages[len(f.messages)-1]
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	driver *Driver
	states *fakeStates
	orders *fakeWorkOrders
	ident  *fakeIdentity
	sender *fakeSender
}

func newHarness() *harness {
	states := newFakeStates()
	orders := newFakeWorkOrders()
	ident := newFakeIdentity()
	ident.orgByUser["100"] = 1
	sender := &fakeSender{}
	driver := NewDriver(states, orders, ident, nil, sender, DriverConfig{
		MasterUserID:  "999",
		InviteTTLDays: 7,
	}, logger.New("development"))
	return &harness{driver: driver, states: states, orders: orders, ident: ident, sender: sender}
}

func privateMessage(userID, chatID int64, text string) *telegram.Update {
	return &telegram.Update{
		Message: &telegram.Message{
			From: &telegram.User{ID: userID, Username: "joao", FirstName: "João"},
			Chat: telegram.Chat{ID: chatID, Type: "private"},
			Text: text,
		},
	}
}

func callback(userID, chatID int64, data string) *telegram.Update {
	return &telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:      "cb1",
			From:    &telegram.User{ID: userID},
			Message: &telegram.Message{Chat: telegram.Chat{ID: chatID, Type: "private"}},
			Data:    data,
		},
	}
}

func (h *harness) send(t *testing.T, upd *telegram.Update) {
	t.Helper()
	if err := h.driver.HandleUpdate(context.Background(), upd); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
}

// ---------------------------------------------------------------------------
// OPEN_FLOW
// ---------------------------------------------------------------------------

func TestOpenFlow_EndToEnd(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/abrir"))
	if got := h.sender.last(t).text; got != MsgOpenStart {
		t.Fatalf("expected equipment prompt, got %q", got)
	}

	h.send(t, privateMessage(100, 500, "Torno CNC 05"))
	h.send(t, privateMessage(100, 500, "Usinagem"))
	h.send(t, privateMessage(100, 500, "Vazamento de óleo no fuso"))
	h.send(t, privateMessage(100, 500, "sim"))

	if len(h.orders.created) != 1 {
		t.Fatalf("expected 1 work order, got %d", len(h.orders.created))
	}
	wo := h.orders.created[0]
	if wo.Equipment != "Torno CNC 05" || wo.Sector != "Usinagem" || wo.Stopped != "SIM" {
		t.Fatalf("unexpected work order: %+v", wo)
	}
	if wo.ProblemDescription != "Vazamento de óleo no fuso" {
		t.Fatalf("unexpected problem: %q", wo.ProblemDescription)
	}
	if st := h.states.m["500"]; st.Mode != ModeIdle {
		t.Fatalf("state not reset after open flow: %+v", st)
	}
	if !strings.Contains(h.sender.last(t).text, "#1") {
		t.Fatalf("confirmation should name the new OS: %q", h.sender.last(t).text)
	}
}

func TestOpenFlow_EmptySectorReprompts(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/abrir"))
	h.send(t, privateMessage(100, 500, "Torno CNC 05"))
	h.send(t, privateMessage(100, 500, ""))

	if got := h.sender.last(t).text; got != MsgSectorMissing {
		t.Fatalf("expected sector reprompt, got %q", got)
	}
	if st := h.states.m["500"]; st.Step != StepAskSector {
		t.Fatalf("step should stay at sector, got %q", st.Step)
	}
}

func TestOpenFlow_StoppedAnswerKeepsGivenSpelling(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/abrir"))
	h.send(t, privateMessage(100, 500, "Prensa 2"))
	h.send(t, privateMessage(100, 500, "Estamparia"))
	h.send(t, privateMessage(100, 500, "Correia partida"))
	h.send(t, privateMessage(100, 500, "nao"))

	if len(h.orders.created) != 1 {
		t.Fatalf("expected 1 work order, got %d", len(h.orders.created))
	}
	// Uppercased only; the unaccented spelling is not rewritten to NÃO.
	if got := h.orders.created[0].Stopped; got != "NAO" {
		t.Fatalf("stopped = %q, want %q", got, "NAO")
	}
}

func TestOpenFlow_InvalidStoppedAnswerReprompts(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/abrir"))
	h.send(t, privateMessage(100, 500, "Prensa 2"))
	h.send(t, privateMessage(100, 500, "Estamparia"))
	h.send(t, privateMessage(100, 500, "Ruído anormal"))
	h.send(t, privateMessage(100, 500, "talvez"))

	if got := h.sender.last(t).text; got != MsgStoppedBad {
		t.Fatalf("expected stopped reprompt, got %q", got)
	}
	if len(h.orders.created) != 0 {
		t.Fatal("work order must not be created on invalid answer")
	}
}

// ---------------------------------------------------------------------------
// CLOSE_FLOW
// ---------------------------------------------------------------------------

func TestCloseFlow_TotalDuration(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "close:7"))
	if !strings.Contains(h.sender.last(t).text, "#7") {
		t.Fatalf("close intro should name the OS: %q", h.sender.last(t).text)
	}

	h.send(t, privateMessage(100, 500, "troquei o retentor"))
	h.send(t, privateMessage(100, 500, "TOTAL 2h"))
	if got := h.sender.last(t).text; got != MsgCloseAskTechs {
		t.Fatalf("total duration should skip the end-time step, got %q", got)
	}
	h.send(t, privateMessage(100, 500, "Marcos, João"))
	h.send(t, privateMessage(100, 500, "retentor 45mm"))
	h.send(t, privateMessage(100, 500, "50,30"))

	if len(h.orders.closes) != 1 {
		t.Fatalf("expected 1 close call, got %d", len(h.orders.closes))
	}
	call := h.orders.closes[0]
	if call.workOrderID != 7 || call.solution != "troquei o retentor" {
		t.Fatalf("unexpected close call: %+v", call)
	}
	if call.minutes != 120 {
		t.Fatalf("expected 120 minutes, got %d", call.minutes)
	}
	if call.partsCost != "50.30" {
		t.Fatalf("expected normalized cost 50.30, got %q", call.partsCost)
	}
	if got := h.orders.technicians[7]; len(got) != 2 || got[0] != "Marcos" || got[1] != "João" {
		t.Fatalf("unexpected technicians: %v", got)
	}
	if got := h.orders.materials[7]; len(got) != 1 || got[0] != "retentor 45mm" {
		t.Fatalf("unexpected materials: %v", got)
	}
	if st := h.states.m["500"]; st.Mode != ModeIdle {
		t.Fatalf("state not reset after close flow: %+v", st)
	}
	costWritten := false
	for _, field := range h.states.written {
		if field == ScratchPartsCost {
			costWritten = true
		}
	}
	if !costWritten {
		t.Fatal("cost answer must be persisted to scratch before closing")
	}
}

func TestCloseFlow_StartEndAcrossMidnight(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "close:3"))
	h.send(t, privateMessage(100, 500, "rearme do disjuntor"))
	h.send(t, privateMessage(100, 500, "23:00"))
	if got := h.sender.last(t).text; got != MsgCloseAskEnd {
		t.Fatalf("expected end-time prompt, got %q", got)
	}
	h.send(t, privateMessage(100, 500, "00:30"))
	h.send(t, privateMessage(100, 500, "Ana"))
	h.send(t, privateMessage(100, 500, "NENHUMA"))
	h.send(t, privateMessage(100, 500, ""))

	call := h.orders.closes[0]
	if call.minutes != 90 {
		t.Fatalf("expected 90 minutes across midnight, got %d", call.minutes)
	}
	if call.partsCost != workorder.NoInformation {
		t.Fatalf("empty cost should map to the sentinel, got %q", call.partsCost)
	}
	if got := h.orders.materials[3]; len(got) != 0 {
		t.Fatalf("NENHUMA must not add materials, got %v", got)
	}
}

func TestCloseFlow_InvalidStartTimeReprompts(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "close:3"))
	h.send(t, privateMessage(100, 500, "limpeza do filtro"))
	h.send(t, privateMessage(100, 500, "25:00"))

	if got := h.sender.last(t).text; got != MsgCloseStartBad {
		t.Fatalf("expected invalid start reprompt, got %q", got)
	}
	if st := h.states.m["500"]; st.Step != StepAskStart {
		t.Fatalf("step should stay at start time, got %q", st.Step)
	}
}

// ---------------------------------------------------------------------------
// UPDATE_FLOW
// ---------------------------------------------------------------------------

func TestUpdateFlow_EndToEnd(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "update:9"))
	if markup := h.sender.last(t).markup; markup == nil || len(markup.InlineKeyboard) != 8 {
		t.Fatal("expected the status menu after picking an OS")
	}

	h.send(t, callback(100, 500, "status:EM_ANDAMENTO"))
	if got := h.sender.last(t).text; got != MsgUpdateAskObs {
		t.Fatalf("expected observation prompt, got %q", got)
	}

	h.send(t, privateMessage(100, 500, "aguardando peça do fornecedor"))

	if len(h.orders.statuses) != 1 {
		t.Fatalf("expected 1 status update, got %d", len(h.orders.statuses))
	}
	call := h.orders.statuses[0]
	if call.workOrderID != 9 || call.status != "EM_ANDAMENTO" || call.note != "aguardando peça do fornecedor" {
		t.Fatalf("unexpected status call: %+v", call)
	}
}

func TestUpdateFlow_PularSkipsObservation(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "update:9"))
	h.send(t, callback(100, 500, "status:ABERTA"))
	h.send(t, privateMessage(100, 500, "pular"))

	if call := h.orders.statuses[0]; call.note != "" {
		t.Fatalf("PULAR should clear the note, got %q", call.note)
	}
	if !strings.Contains(h.sender.last(t).text, "SEM OBSERVAÇÃO") {
		t.Fatalf("confirmation should show the empty-note placeholder: %q", h.sender.last(t).text)
	}
}

func TestStatusCallback_OutOfContextIsRejected(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "status:EM_ANDAMENTO"))

	if got := h.sender.last(t).text; got != MsgUnknownAction {
		t.Fatalf("expected unknown action, got %q", got)
	}
	if len(h.orders.statuses) != 0 {
		t.Fatal("no status update may happen outside the update flow")
	}
}

func TestStatusCallback_ValueOutsideMenuIsRejected(t *testing.T) {
	h := newHarness()

	h.send(t, callback(100, 500, "update:9"))
	h.send(t, callback(100, 500, "status:FECHADA"))

	if got := h.sender.last(t).text; got != MsgUnknownAction {
		t.Fatalf("expected unknown action for FECHADA, got %q", got)
	}
	if st := h.states.m["500"]; st.Status != "" {
		t.Fatalf("rejected status must not be stored, got %q", st.Status)
	}
}

// ---------------------------------------------------------------------------
// Gates and commands
// ---------------------------------------------------------------------------

func TestGroupChatIsRefused(t *testing.T) {
	h := newHarness()

	upd := privateMessage(100, 500, "/abrir")
	upd.Message.Chat.Type = "group"
	h.send(t, upd)

	if got := h.sender.last(t).text; got != MsgPrivateOnly {
		t.Fatalf("expected private-only notice, got %q", got)
	}
}

func TestUserWithoutOrgIsGated(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(200, 600, "/abrir"))

	if got := h.sender.last(t).text; got != MsgNotInOrgFull {
		t.Fatalf("expected org gate message, got %q", got)
	}
}

func TestPickClose_NoOpenWorkOrders(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/fechar"))

	if got := h.sender.last(t).text; got != MsgNoOpenOSToClose {
		t.Fatalf("expected empty-list notice, got %q", got)
	}
}

func TestPickClose_ListsOpenWorkOrders(t *testing.T) {
	h := newHarness()
	h.orders.CreateOpen(context.Background(), 1, "500", "Bomba 3", "Utilidades", "Vibração excessiva no mancal dianteiro da bomba", "NAO")

	h.send(t, privateMessage(100, 500, "/fechar"))

	last := h.sender.last(t)
	if last.text != MsgClosePickOS {
		t.Fatalf("expected pick prompt, got %q", last.text)
	}
	if last.markup == nil || len(last.markup.InlineKeyboard) != 1 {
		t.Fatal("expected one inline button per open work order")
	}
	btn := last.markup.InlineKeyboard[0][0]
	if btn.CallbackData != "close:1" {
		t.Fatalf("unexpected callback data: %q", btn.CallbackData)
	}
}

func TestCreateOrg_RequiresMaster(t *testing.T) {
	h := newHarness()
	h.ident.orgByUser["100"] = 1

	h.send(t, privateMessage(100, 500, `/criar_empresa "Oficina Nova"`))

	if got := h.sender.last(t).text; got != MsgCreateOrgDenied {
		t.Fatalf("expected master gate, got %q", got)
	}
}

func TestCreateOrg_AsMaster(t *testing.T) {
	h := newHarness()
	h.ident.orgByUser["999"] = 1

	h.send(t, privateMessage(999, 700, `/criar_empresa "Oficina Nova"`))

	if len(h.sender.messages) < 2 {
		t.Fatalf("expected creation plus next-steps messages, got %d", len(h.sender.messages))
	}
	if !strings.Contains(h.sender.messages[len(h.sender.messages)-2].text, "Oficina Nova") {
		t.Fatalf("creation message should name the org: %q", h.sender.messages[len(h.sender.messages)-2].text)
	}
}

func TestInviteUser_RequiresAdminRole(t *testing.T) {
	h := newHarness()
	h.ident.roles["100"] = identity.RoleOrgUser

	h.send(t, privateMessage(100, 500, "/invite_user"))

	if got := h.sender.last(t).text; got != MsgInviteUserDenied {
		t.Fatalf("expected admin gate, got %q", got)
	}
	if len(h.ident.invites) != 0 {
		t.Fatal("no invite may be created by a non-admin")
	}
}

func TestInviteUser_AsAdminSendsTokenAndQR(t *testing.T) {
	h := newHarness()
	h.ident.roles["100"] = identity.RoleOrgAdmin

	h.send(t, privateMessage(100, 500, "/invite_user"))

	if len(h.ident.invites) != 1 || h.ident.invites[0].Role != identity.RoleOrgUser {
		t.Fatalf("unexpected invites: %+v", h.ident.invites)
	}
	if !strings.Contains(h.sender.last(t).text, "INV-TEST01") {
		t.Fatalf("invite message should carry the token: %q", h.sender.last(t).text)
	}
	if h.sender.photos != 1 {
		t.Fatalf("expected 1 QR photo, got %d", h.sender.photos)
	}
}

func TestJoin_ConsumesInvite(t *testing.T) {
	h := newHarness()
	h.ident.consume = identity.ConsumeResult{OK: true, Message: "ok", OrganizationID: 5, Role: identity.RoleOrgUser}

	h.send(t, privateMessage(300, 800, "/entrar INV-ABC123"))

	if !strings.Contains(h.sender.last(t).text, "Metalúrgica Aurora") {
		t.Fatalf("join confirmation should name the org: %q", h.sender.last(t).text)
	}
}

func TestRegister_DisabledWithoutExtractor(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "/registrar troquei o rolamento da esteira"))

	if got := h.sender.last(t).text; got != MsgExtractionDisabled {
		t.Fatalf("expected extraction-disabled notice, got %q", got)
	}
}

func TestUnknownTextShowsMenuHint(t *testing.T) {
	h := newHarness()

	h.send(t, privateMessage(100, 500, "bom dia"))

	if got := h.sender.last(t).text; got != MsgUnknownCommand {
		t.Fatalf("expected menu hint, got %q", got)
	}
}
