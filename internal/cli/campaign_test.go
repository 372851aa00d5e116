package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseStartDate(t *testing.T) {
	start, err := parseStartDate("2025-08-15", 10)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if start.Format("2006-01-02") != "2025-08-15" || start.Hour() != 0 {
		t.Fatalf("unexpected start %v", start)
	}

	for _, tc := range []struct {
		date string
		days int
	}{
		{"2025-08-15", 0},
		{"2025-08-15", 366},
		{"15/08/2025", 10},
		{"", 10},
	} {
		if _, err := parseStartDate(tc.date, tc.days); err == nil {
			t.Fatalf("expected error for date %q days %d", tc.date, tc.days)
		}
	}
}

func TestCampaignStartNeedsPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	cmd := NewCampaignCmd(&cfgPath)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"start", "--date", "2025-08-15", "--days", "5"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Fatalf("expected postgres error, got %v", err)
	}
}

func TestRootRegistersAdminCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"start", "migrate", "tick", "import-questions", "import-users", "campaign"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	if c, _, err := root.Find([]string{"campaign", "start"}); err != nil || c.Name() != "start" || c.Parent().Name() != "campaign" {
		t.Fatalf("campaign start not registered: %v", err)
	}
}
