package bot

import (
	"strings"
	"testing"

	workorderrepo "easypcm_backend/internal/workorder/repository"
	workorder "easypcm_backend/internal/workorder/service"
)

func TestFormatTechnicians(t *testing.T) {
	if got := FormatTechnicians(nil); got != workorder.NoInformation {
		t.Fatalf("empty list should render the sentinel, got %q", got)
	}
	if got := FormatTechnicians([]string{"Marcos", "João"}); got != "Marcos, João" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestFormatMaterials_TruncatesAfterSix(t *testing.T) {
	if got := FormatMaterials(nil); got != "NENHUMA" {
		t.Fatalf("empty list should render NENHUMA, got %q", got)
	}

	many := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	got := FormatMaterials(many)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("overflow should be marked: %q", got)
	}
	if strings.Contains(got, "g") {
		t.Fatalf("only the first six items should be shown: %q", got)
	}
}

func TestMsgUpdateDone_EmptyObservation(t *testing.T) {
	got := MsgUpdateDone(4, "EM_ANDAMENTO", "   ")
	if !strings.Contains(got, "SEM OBSERVAÇÃO") {
		t.Fatalf("blank observation should render the placeholder: %q", got)
	}
}

func TestSummarize_TruncatesLongProblems(t *testing.T) {
	wo := workorderrepo.WorkOrder{
		ID:                 1,
		Equipment:          "Bomba 3",
		ProblemDescription: strings.Repeat("x", 60),
	}
	item := summarize(wo)
	want := "Bomba 3 - " + strings.Repeat("x", 40)
	if item.Summary != want {
		t.Fatalf("unexpected summary: %q", item.Summary)
	}
}
