package bot

import (
	"os"
	"path/filepath"
	"testing"

	workorder "easypcm_backend/internal/workorder/service"
)

func TestDefaultStatusOptions_ExcludesTerminalStatuses(t *testing.T) {
	opts := DefaultStatusOptions()
	if len(opts) != 8 {
		t.Fatalf("expected 8 default statuses, got %d", len(opts))
	}
	set := NewStatusSet(opts)
	if set.Allowed(workorder.StatusClosed) {
		t.Fatal("FECHADA must not be offered in the update menu")
	}
	if set.Allowed(workorder.StatusCancelled) {
		t.Fatal("CANCELADA must not be offered in the update menu")
	}
	if !set.Allowed(workorder.StatusInProgress) {
		t.Fatal("EM_ANDAMENTO should be allowed")
	}
}

func TestLoadStatusOptions_MissingFileFallsBack(t *testing.T) {
	opts, err := LoadStatusOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != len(DefaultStatusOptions()) {
		t.Fatalf("expected defaults, got %d entries", len(opts))
	}
}

func TestLoadStatusOptions_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yaml")
	content := "statuses:\n  - label: Pausada\n    value: PAUSADA\n  - label: Em análise\n    value: EM_ANALISE\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadStatusOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(opts))
	}
	if opts[0].Label != "Pausada" || opts[0].Value != "PAUSADA" {
		t.Fatalf("unexpected first entry: %+v", opts[0])
	}
	set := NewStatusSet(opts)
	if set.Allowed(workorder.StatusOpen) {
		t.Fatal("override should replace the defaults, not extend them")
	}
}

func TestLoadStatusOptions_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yaml")
	if err := os.WriteFile(path, []byte("statuses: [i'm broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStatusOptions(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadStatusOptions_EntryMissingValueErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yaml")
	if err := os.WriteFile(path, []byte("statuses:\n  - label: Pausada\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStatusOptions(path); err == nil {
		t.Fatal("expected error for entry without value")
	}
}
