package bot

import (
	"fmt"
	"strings"

	workorder "easypcm_backend/internal/workorder/service"
)

// User-facing message catalog. Everything the bot says lives here so the
// dialogue driver stays free of copy.
const (
	MsgMenuTitle = "Menu:"

	MsgOpenStart     = "Ok. Vamos abrir uma OS.\n\nInforme o equipamento/TAG:"
	MsgAskSector     = "Informe o setor (obrigatório):"
	MsgSectorMissing = "Setor é obrigatório. Informe o setor:"
	MsgAskProblem    = "Descreva o problema / serviço solicitado:"
	MsgAskStopped    = "A máquina está parada? Responda: SIM ou NÃO"
	MsgStoppedBad    = "Resposta inválida. Digite SIM ou NÃO:"

	MsgCloseAskSolution = "Descreva o serviço executado / solução aplicada:"
	MsgCloseAskStart    = "Informe a hora de INÍCIO (HH:MM).\n" +
		"Se o serviço passou de 1 dia, você pode informar o tempo total assim:\n" +
		"TOTAL 3h  (ou TOTAL 180)"
	MsgCloseStartBad     = "Formato inválido. Envie HH:MM (ex: 08:10) ou TOTAL 3h:"
	MsgCloseAskEnd       = "Informe a hora de TÉRMINO (HH:MM):"
	MsgCloseEndBad       = "Formato inválido. Envie HH:MM (ex: 09:40):"
	MsgCloseAskTechs     = "Informe o(s) técnico(s) (ex: Marcos, João):"
	MsgCloseAskMaterials = "Informe as peças utilizadas (separe por vírgula).\n" +
		"Ex: Rolamento, Retentor 45mm, Graxa\n" +
		"Se não houve peças, digite: NENHUMA"
	MsgCloseAskCost = "Informe o custo de peças em Reais(opcional). Pode ser 0. Ex: 50\n" +
		"Se não souber, envie 0."
	MsgClosePickOS = "Selecione a OS para fechar:"

	MsgUpdatePickOS = "Selecione a OS para atualizar:"
	MsgUpdateAskObs = "Deseja adicionar uma observação? (opcional)\n" +
		"Ex: aguardando diafragma chegar\n\n" +
		"Se não quiser, digite: PULAR"

	MsgUnknownAction    = "Ação não reconhecida."
	MsgUnknownCommand   = "Escolha uma opção abaixo ⬇"
	MsgNoOpenOSToClose  = "Não encontrei OS abertas para fechar."
	MsgNoOpenOSToUpdate = "Não encontrei OS abertas para atualizar."

	MsgNotInOrg = "Você ainda não está em uma empresa. Use: /entrar SEU-CÓDIGO"
	MsgNotInOrgFull = "Você ainda não está em uma empresa.\n\n" +
		"Use: /entrar INV-XXXXXX\n\n" +
		"Se você é o MASTER, crie uma empresa com:\n/criar_empresa \"Nome\""
	MsgPrivateOnly = "Para manter privacidade e organização, use o bot no PRIVADO.\n" +
		"Abra uma conversa comigo e use /menu.\n\n" +
		"Se precisar entrar em uma empresa: /entrar SEU-CÓDIGO"

	MsgJoinUsage        = "Uso: /entrar INV-XXXXXX"
	MsgCreateOrgUsage   = `Uso: /criar_empresa "Nome da Empresa"`
	MsgCreateOrgDenied  = "Sem permissão. Apenas o MASTER pode criar empresas."
	MsgInviteAdminUsage = "Uso: /invite_admin <ORG_ID>"
	MsgInviteAdminOnly  = "Sem permissão. Apenas o MASTER pode criar convite de admin."
	MsgInviteUserDenied = "Sem permissão. Apenas ADMIN da empresa pode convidar usuários."
	MsgOrgNotFound      = "Empresa não encontrada."

	MsgExtractionFailed   = "Não consegui interpretar o relato. Tente novamente ou use /abrir."
	MsgExtractionDisabled = "Registro por texto livre está desativado. Use /abrir."
	MsgRegisterUsage      = "Uso: /registrar <relato do serviço>"
)

func MsgJoined(accepted, orgName, role string) string {
	return fmt.Sprintf("%s\n\nEmpresa: %s\nPerfil: %s", accepted, orgName, role)
}

func MsgOrgCreated(id int64, name string) string {
	return fmt.Sprintf("Empresa criada!\nID: %d\nNome: %s", id, name)
}

func MsgOrgCreatedNext(id int64) string {
	return fmt.Sprintf("Agora gere o convite do admin:\n/invite_admin %d", id)
}

func MsgAdminInviteCreated(ttlDays int, token string) string {
	return fmt.Sprintf(
		"Convite de ADMIN criado (expira em %d dias):\n\n%s\n\nEnvie este código para o admin da empresa.",
		ttlDays, token,
	)
}

func MsgUserInviteCreated(ttlDays int, token string) string {
	return fmt.Sprintf(
		"Convite de USUÁRIO criado (expira em %d dias):\n\n%s\n\nEnvie este código para a pessoa entrar com /entrar %s",
		ttlDays, token, token,
	)
}

func MsgCloseIntro(osID int64) string {
	return fmt.Sprintf("Ok. Vamos fechar a OS #%d.\n\n%s", osID, MsgCloseAskSolution)
}

func MsgUpdateIntro(osID int64) string {
	return fmt.Sprintf("Ok. Vamos atualizar a OS #%d.\n\nSelecione o novo status:", osID)
}

func MsgOpenDone(osID int64, equipment, sector, stopped, problem string) string {
	return fmt.Sprintf(
		"✅ OS #%d ABERTA\n\nEquipamento: %s\nSetor: %s\nParada: %s\nProblema: %s",
		osID, equipment, sector, stopped, problem,
	)
}

func MsgCloseDone(osID int64, equipment, sector string, minutes int, technicians, materials, cost, solution string) string {
	return fmt.Sprintf(
		"✅ OS #%d FECHADA\n\nEquipamento: %s\nSetor: %s\nTempo (min): %d\nTécnicos: %s\nPeças: %s\nCusto peças: %s\nSolução: %s",
		osID, equipment, sector, minutes, technicians, materials, cost, solution,
	)
}

func MsgExtractedDone(osID int64, f workorder.ExtractedFields) string {
	return fmt.Sprintf(
		"✅ OS #%d REGISTRADA\n\nEquipamento: %s\nSetor: %s\nSolicitante: %s\nExecutor: %s\nProblema: %s\nTipo: %s\nStatus: %s\nTempo (min): %d\nCusto peças: %s\nSolução: %s",
		osID, f.Equipment, f.Sector, f.Requester, f.Executor,
		f.ProblemDescription, f.MaintenanceType, f.Status,
		f.TimeSpentMinutes, f.PartsCost, f.SolutionApplied,
	)
}

func MsgUpdateDone(osID int64, status, observation string) string {
	obs := strings.TrimSpace(observation)
	if obs == "" {
		obs = "SEM OBSERVAÇÃO"
	}
	return fmt.Sprintf("✅ OS #%d ATUALIZADA\n\nStatus: %s\nObs: %s", osID, status, obs)
}

// FormatTechnicians renders the closing summary's technician list.
func FormatTechnicians(names []string) string {
	if len(names) == 0 {
		return workorder.NoInformation
	}
	return strings.Join(names, ", ")
}

// FormatMaterials renders up to six material descriptions, marking overflow.
func FormatMaterials(descriptions []string) string {
	if len(descriptions) == 0 {
		return "NENHUMA"
	}
	if len(descriptions) > 6 {
		return strings.Join(descriptions[:6], ", ") + "..."
	}
	return strings.Join(descriptions, ", ")
}
