package exports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"easypcm_backend/internal/workorder/repository"
)

var csvHeader = []string{
	"id", "equipamento", "setor", "solicitante", "executor",
	"problema", "tipo_manutencao", "maquina_parada", "status", "observacao",
	"tempo_gasto_minutos", "custo_pecas", "solucao_aplicada",
	"aberta_em", "fechada_em",
}

// BuildCSV renders work orders as a CSV document with a fixed header row.
func BuildCSV(orders []repository.WorkOrder) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, wo := range orders {
		closedAt := ""
		if wo.ClosedAt != nil {
			closedAt = wo.ClosedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(wo.ID, 10),
			wo.Equipment,
			wo.Sector,
			wo.Requester,
			wo.Executor,
			wo.ProblemDescription,
			wo.MaintenanceType,
			wo.Stopped,
			wo.Status,
			wo.StatusNote,
			strconv.Itoa(wo.TimeSpentMinutes),
			wo.PartsCost,
			wo.SolutionApplied,
			wo.OpenedAt.UTC().Format(time.RFC3339),
			closedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
