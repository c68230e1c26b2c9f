package bot

import (
	"context"
	"strings"
	"testing"
)

func TestSetStateQueryClearsEveryScratchColumnOnModeChange(t *testing.T) {
	query := strings.ToLower(setStateQuery)

	for field := range scratchColumns {
		fragment := string(field) + " "
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected scratch column %q in the set-state query", field)
		}
		caseClause := "case when mode = $2 then " + string(field)
		if !strings.Contains(query, caseClause) {
			t.Fatalf("expected mode-guarded clear for %q", field)
		}
	}

	if !strings.Contains(query, "where chat_id = $1") {
		t.Fatal("expected set-state query to target one chat")
	}
}

func TestUpdateScratchRejectsUnknownColumn(t *testing.T) {
	r := &Repository{}
	err := r.UpdateScratch(context.Background(), "500", ScratchField("mode"), "CLOSE_FLOW")
	if err == nil {
		t.Fatal("expected error for column outside the whitelist")
	}
}
