package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureMD = `[![Home](/logo-desk.svg)](/)

### Collections

- [Rings](/rings)
- [Watches](/watches)

### Stories

[Stories](/stories)
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHTMLCommand(t *testing.T) {
	out, err := run(t, "html", writeTemp(t, "nav.md", fixtureMD), "--width", "375")
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{`id="nav"`, `class="nav-hamburger"`, "View Collections submenu"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestJSONCommand(t *testing.T) {
	out, err := run(t, "json", writeTemp(t, "nav.md", fixtureMD))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var tree struct {
		Items []struct {
			Label string `json:"label"`
			Kind  string `json:"kind"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatal(err)
	}
	if len(tree.Items) != 2 || tree.Items[0].Kind != "submenu_holder" || tree.Items[1].Kind != "direct_link" {
		t.Errorf("unexpected items %+v", tree.Items)
	}
}

func TestSimulateCommand(t *testing.T) {
	frag := writeTemp(t, "nav.md", fixtureMD)
	script := writeTemp(t, "script.json", `[{"type":"click","item":"Collections"}]`)

	out, err := run(t, "simulate", frag, script, "--width", "1440")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var resp struct {
		State struct {
			Expanded []string `json:"expanded"`
		} `json:"state"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.State.Expanded) != 1 || resp.State.Expanded[0] != "nav-item-collections" {
		t.Errorf("expected Collections expanded, got %v", resp.State.Expanded)
	}
}

func TestUnsupportedFile(t *testing.T) {
	if _, err := run(t, "html", writeTemp(t, "nav.pdf", "%PDF")); err == nil {
		t.Error("expected error for unsupported file")
	}
}
