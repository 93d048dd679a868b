package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupSnapshotTest(t *testing.T) {
	t.Helper()
	// Reset flags between test runs to avoid state leaking
	snapshotCmd.Flags().Set("from", "")
	snapshotCmd.Flags().Set("to", "")
	snapshotCmd.Flags().Set("metric", "sales")
	snapshotCmd.Flags().Set("window", "7")
	snapshotCmd.Flags().Set("rows", "10")
	snapshotCmd.Flags().Set("json", "false")
	rootCmd.PersistentFlags().Set("config", defaultConfigPath)
}

func writeSnapshotConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "dataset:\n  seed: 42\n  days: 30\n  start_date: \"2023-01-01\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestSnapshotJSON(t *testing.T) {
	setupSnapshotTest(t)
	cfgPath := writeSnapshotConfig(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"snapshot", "--config", cfgPath, "--json",
		"--from", "2023-01-01", "--to", "2023-01-15"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("snapshot --json failed: %v", err)
	}

	var snap struct {
		From     string `json:"from"`
		To       string `json:"to"`
		Metric   string `json:"metric"`
		Window   int    `json:"window"`
		RowCount int    `json:"row_count"`
	}
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, buf.String())
	}
	if snap.RowCount != 15 {
		t.Errorf("row_count = %d, want 15", snap.RowCount)
	}
	if snap.From != "2023-01-01" || snap.To != "2023-01-15" {
		t.Errorf("echoed range = %s..%s, want 2023-01-01..2023-01-15", snap.From, snap.To)
	}
	if snap.Metric != "sales" || snap.Window != 7 {
		t.Errorf("defaults not applied: metric=%q window=%d", snap.Metric, snap.Window)
	}
}

func TestSnapshotTable(t *testing.T) {
	setupSnapshotTest(t)
	cfgPath := writeSnapshotConfig(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"snapshot", "--config", cfgPath, "--metric", "users", "--rows", "5"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Dataset  30 rows",
		"seed 42",
		"Total Sales",
		"Average Users",
		"Conversion Rate",
		"conversion",
		"Trend (users, 7-day avg, last 5 of 30)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q. Got:\n%s", want, out)
		}
	}
}

func TestSnapshotRejectsBadDate(t *testing.T) {
	setupSnapshotTest(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"snapshot", "--from", "01-02-2023"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("snapshot accepted a malformed --from date")
	}
	if !strings.Contains(err.Error(), "--from") {
		t.Errorf("error = %q, want mention of --from", err)
	}
}

func TestSnapshotRejectsBadMetric(t *testing.T) {
	setupSnapshotTest(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"snapshot", "--metric", "revenue"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("snapshot accepted an unknown metric")
	}
	if !strings.Contains(err.Error(), "--metric") {
		t.Errorf("error = %q, want mention of --metric", err)
	}
}
