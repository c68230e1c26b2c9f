package extraction

import (
	"strconv"
	"strings"

	workorder "easypcm_backend/internal/workorder/service"
)

// Portuguese JSON keys the model is instructed to emit.
const (
	keyEquipment       = "equipamento"
	keySector          = "setor"
	keyRequester       = "solicitante"
	keyExecutor        = "executor"
	keyProblem         = "descrição_do_problema"
	keyMaintenanceType = "tipo_manutenção"
	keyStatus          = "status"
	keyMinutes         = "tempo_gasto_minutos"
	keyCost            = "custo_peças"
	keySolution        = "solução_aplicada"
)

// FromRaw normalizes a decoded model response into typed fields. The model
// is told to emit sentinels and numbers, but the output is treated as
// untrusted: nulls, blanks, numeric strings and decimal commas all get
// coerced here.
func FromRaw(raw map[string]any) workorder.ExtractedFields {
	return workorder.ExtractedFields{
		Equipment:          normString(raw[keyEquipment]),
		Sector:             normString(raw[keySector]),
		Requester:          normString(raw[keyRequester]),
		Executor:           normString(raw[keyExecutor]),
		ProblemDescription: normString(raw[keyProblem]),
		MaintenanceType:    normString(raw[keyMaintenanceType]),
		Status:             normString(raw[keyStatus]),
		TimeSpentMinutes:   normMinutes(raw[keyMinutes]),
		PartsCost:          normCost(raw[keyCost]),
		SolutionApplied:    normString(raw[keySolution]),
	}
}

func normString(v any) string {
	if v == nil {
		return workorder.NoInformation
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return workorder.NoInformation
	}
	return s
}

// normMinutes coerces the time field to whole minutes; anything
// unparseable collapses to zero.
func normMinutes(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, workorder.NoInformation) {
			return 0
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0
		}
		return int(f)
	}
	return 0
}

// normCost coerces the cost field to a dotted decimal string or the
// sentinel.
func normCost(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, workorder.NoInformation) {
			return workorder.NoInformation
		}
		dotted := strings.ReplaceAll(s, ",", ".")
		if f, err := strconv.ParseFloat(dotted, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return workorder.NoInformation
	}
	return workorder.NoInformation
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
