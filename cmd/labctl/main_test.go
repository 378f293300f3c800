package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CLDWare/methods-lab/api"
	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/realtime"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

func startServer(t *testing.T) string {
	t.Helper()
	cfg := *config.Get()
	cfg.Server.APIKey = ""
	db, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(64)
	a := api.NewAPI(&cfg, db, hub)
	srv := httptest.NewServer(api.ApplyMiddleware(a.CreateMux()))
	t.Cleanup(func() {
		a.Close()
		srv.Close()
		hub.Close()
	})
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func valueOf(output, key string) string {
	for _, line := range strings.Split(output, "\n") {
		if v, ok := strings.CutPrefix(line, key+"="); ok {
			return v
		}
	}
	return ""
}

func TestLinkWithoutSession(t *testing.T) {
	server := startServer(t)
	if _, err := run(t, "link", "--server", server); err == nil {
		t.Fatal("expected an error without sessions")
	}
}

func TestSessionLinkSubmit(t *testing.T) {
	server := startServer(t)
	state := filepath.Join(t.TempDir(), "state.json")
	linkFile := filepath.Join(t.TempDir(), "group.txt")

	out, err := run(t, "session", "start", "--server", server, "--minutes", "3", "--students", "12")
	if err != nil {
		t.Fatalf("session start: %v\n%s", err, out)
	}
	if !strings.Contains(out, "difference") || !strings.Contains(out, "/group/") {
		t.Errorf("session start output misses groups:\n%s", out)
	}

	out, err = run(t, "link", "--server", server, "-o", linkFile)
	if err != nil {
		t.Fatalf("link: %v\n%s", err, out)
	}
	groupID := valueOf(out, "GROUP_ID")
	if groupID == "" || valueOf(out, "METHOD") != "difference" {
		t.Fatalf("unexpected link output:\n%s", out)
	}
	written, err := os.ReadFile(linkFile)
	if err != nil || string(written) != groupID {
		t.Errorf("link file = %q, %v; want %q", written, err, groupID)
	}

	out, err = run(t, "session", "phase", "current", "work", "--server", server)
	if err != nil {
		t.Fatalf("session phase: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Group work") {
		t.Errorf("phase output = %q", out)
	}

	if _, err := run(t, "session", "phase", "current", "lunch", "--server", server); err == nil {
		t.Error("expected unknown phase to fail")
	}

	if _, err := run(t, "submit", groupID, "not an option", "--server", server, "--state-file", state); err == nil {
		t.Error("expected unknown option to fail")
	}

	out, err = run(t, "submit", groupID, "Department Meeting", "--why", "only difference", "--server", server, "--state-file", state)
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}
	if len(valueOf(out, "DEVICE")) != 7 {
		t.Errorf("submit output = %q", out)
	}

	if _, err := run(t, "submit", groupID, "Department Meeting", "--server", server, "--state-file", state); err == nil {
		t.Error("expected second submit from the same state file to fail")
	}

	out, err = run(t, "session", "end", "current", "--server", server)
	if err != nil {
		t.Fatalf("session end: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Finished") {
		t.Errorf("end output = %q", out)
	}
}

func TestScenarios(t *testing.T) {
	server := startServer(t)
	out, err := run(t, "scenarios", "--server", server)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range models.MethodTypes {
		if !strings.Contains(out, string(m)+":") {
			t.Errorf("scenarios output misses %s", m)
		}
	}
}
