package exports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"easypcm_backend/internal/workorder/repository"
)

func TestBuildCSV(t *testing.T) {
	opened := time.Date(2026, 8, 10, 14, 0, 0, 0, time.UTC)
	closed := opened.Add(2 * time.Hour)
	orders := []repository.WorkOrder{
		{
			ID:                 1,
			Equipment:          "Torno CNC 05",
			Sector:             "Usinagem",
			Requester:          "Carlos",
			Executor:           "Marcos",
			ProblemDescription: "vazamento de óleo, fuso travando",
			MaintenanceType:    "CORRETIVA",
			Stopped:            "SIM",
			Status:             "FECHADA",
			TimeSpentMinutes:   120,
			PartsCost:          "50.30",
			SolutionApplied:    "troca do retentor",
			OpenedAt:           opened,
			ClosedAt:           &closed,
		},
		{
			ID:        2,
			Equipment: "Prensa 2",
			Status:    "ABERTA",
			OpenedAt:  opened,
		},
	}

	data, err := BuildCSV(orders)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][14] != "fechada_em" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "1" || row[1] != "Torno CNC 05" {
		t.Fatalf("unexpected first row: %v", row)
	}
	if row[5] != "vazamento de óleo, fuso travando" {
		t.Fatalf("comma in field must survive quoting: %q", row[5])
	}
	if row[10] != "120" || row[11] != "50.30" {
		t.Fatalf("unexpected minutes/cost: %v", row)
	}
	if row[13] != "2026-08-10T14:00:00Z" || row[14] != "2026-08-10T16:00:00Z" {
		t.Fatalf("unexpected timestamps: %v", row)
	}

	if records[2][14] != "" {
		t.Fatalf("open order must have empty fechada_em, got %q", records[2][14])
	}
}

func TestBuildCSV_EmptyStillHasHeader(t *testing.T) {
	data, err := BuildCSV(nil)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 1 || len(records[0]) != 15 {
		t.Fatalf("expected a lone 15-column header, got %v", records)
	}
}
