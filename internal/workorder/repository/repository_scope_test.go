package repository

import (
	"strings"
	"testing"
)

func TestListOpenQueryIsTenantScopedAndExcludesTerminalStatuses(t *testing.T) {
	query := strings.ToLower(listOpenQuery)

	requiredFragments := []string{
		"from work_orders",
		"where organization_id = $1",
		"status not in ('fechada', 'cancelada')",
		"order by id desc",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected open-list query fragment %q to be present", fragment)
		}
	}
}

func TestGetQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(getQuery)

	if !strings.Contains(query, "where organization_id = $1 and id = $2") {
		t.Fatal("expected get query to scope by organization and id")
	}
}

func TestCloseQueryOnlyClosesOpenWorkOrders(t *testing.T) {
	query := strings.ToLower(closeQuery)

	requiredFragments := []string{
		"update work_orders",
		"status = 'fechada'",
		"where organization_id = $1 and id = $2",
		"and status not in ('fechada', 'cancelada')",
		"closed_at = now()",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected close query fragment %q to be present", fragment)
		}
	}
}
