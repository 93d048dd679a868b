package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func setupVersionTest(t *testing.T) {
	t.Helper()
	SetVersion("1.2.3")
	SetBuildInfo("abc1234", "2026-02-06T07:16:38Z")
	// Reset flags between test runs to avoid state leaking
	versionCmd.Flags().Set("short", "false")
	versionCmd.Flags().Set("json", "false")
}

func TestVersionOutputContainsFields(t *testing.T) {
	setupVersionTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	for _, field := range []string{"bizpulse version 1.2.3", "commit:", "built:", "go version:", "platform:"} {
		if !strings.Contains(out, field) {
			t.Errorf("version output missing %q. Got:\n%s", field, out)
		}
	}
}

func TestVersionShort(t *testing.T) {
	setupVersionTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version", "--short"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version --short failed: %v", err)
	}

	if got := strings.TrimSpace(buf.String()); got != "1.2.3" {
		t.Errorf("version --short = %q, want %q", got, "1.2.3")
	}
}

func TestVersionJSON(t *testing.T) {
	setupVersionTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version", "--json"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version --json failed: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, buf.String())
	}
	for _, key := range []string{"version", "commit", "built", "goVersion", "platform"} {
		if _, ok := result[key]; !ok {
			t.Errorf("JSON output missing key %q. Got: %v", key, result)
		}
	}
}
