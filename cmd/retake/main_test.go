package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandListsSubcommands(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	help := out.String()
	for _, name := range []string{"clean", "judge", "history", "config"} {
		if !strings.Contains(help, name) {
			t.Errorf("help output missing %q:\n%s", name, help)
		}
	}
}

func TestDefaultOutputPaths(t *testing.T) {
	if got := defaultAudioOut("/takes/session.wav"); got != "/takes/session_cleaned.wav" {
		t.Errorf("defaultAudioOut = %q", got)
	}
	if got := defaultAudioOut("/takes/session.mp4"); got != "/takes/session_cleaned.mp4" {
		t.Errorf("defaultAudioOut mp4 = %q", got)
	}
	if got := defaultSubtitleOut("/takes/session.wav"); got != "/takes/session.hrt" {
		t.Errorf("defaultSubtitleOut = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
		[]columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only-a") {
		t.Errorf("table output missing cell: %s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Errorf("missing cells should render empty: %s", out)
	}
}
