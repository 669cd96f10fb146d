package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func writeValues(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write values: %v", err)
	}
	return path
}

type renderedView struct {
	Status string `json:"status"`
	Button struct {
		Action string `json:"action"`
	} `json:"button"`
	Fields []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
		Error string `json:"error"`
	} `json:"fields"`
}

func decodeView(t *testing.T, out string) renderedView {
	t.Helper()
	var view renderedView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v\n%s", err, out)
	}
	return view
}

func TestRenderIdleJSON(t *testing.T) {
	out, err := execute(t, "render", "--renderer", "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	view := decodeView(t, out)
	if view.Status != "idle" {
		t.Fatalf("expected idle status, got %q", view.Status)
	}
	var names []string
	for _, field := range view.Fields {
		names = append(names, field.Name)
		if field.Error != "" {
			t.Fatalf("idle field %s has error %q", field.Name, field.Error)
		}
	}
	want := []string{"firstName", "lastName", "email", "password"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSubmitOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		file       string
		content    string
		wantStatus string
		wantAction string
		wantErrors map[string]string
	}{
		{
			name:       "valid yaml",
			file:       "ada.yaml",
			content:    "firstName: Ada\nlastName: Lovelace\nemail: ada@gmail.com\npassword: Abcdef1!\n",
			wantStatus: "success",
			wantAction: "reset",
			wantErrors: map[string]string{},
		},
		{
			name:       "duplicate json",
			file:       "dup.json",
			content:    `{"firstName":"Ada","lastName":"Lovelace","email":"test@gmail.com","password":"Abcdef1!"}`,
			wantStatus: "failure",
			wantAction: "submit",
			wantErrors: map[string]string{"email": "This email is already registered"},
		},
		{
			name:       "missing names",
			file:       "partial.yaml",
			content:    "email: ada@gmail.com\npassword: Abcdef1!\n",
			wantStatus: "warning",
			wantAction: "submit",
			wantErrors: map[string]string{
				"firstName": "First name is required",
				"lastName":  "Last name is required",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeValues(t, tc.file, tc.content)
			out, err := execute(t, "render", "--renderer", "json", "--submit", "--values", path)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			view := decodeView(t, out)
			if view.Status != tc.wantStatus {
				t.Fatalf("status: want %q, got %q", tc.wantStatus, view.Status)
			}
			if view.Button.Action != tc.wantAction {
				t.Fatalf("button action: want %q, got %q", tc.wantAction, view.Button.Action)
			}
			got := map[string]string{}
			for _, field := range view.Fields {
				if field.Error != "" {
					got[field.Name] = field.Error
				}
				if field.Name == "password" && field.Value != "" {
					t.Fatalf("password value leaked into JSON output")
				}
			}
			if diff := cmp.Diff(tc.wantErrors, got); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderHTMLToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "page.html")
	if _, err := execute(t, "render", "-o", target); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `name="email"`) {
		t.Fatalf("expected email input in page:\n%s", data)
	}
}

func TestRenderWithTemplatesDir(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	if err := os.MkdirAll(templates, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"page.tmpl": `<main>{{ region.children|safe }}</main>`,
		"form.tmpl": `<p>{{ view.status }}</p>`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(templates, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	out, err := execute(t, "render", "--templates", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != "<main><p>idle</p></main>" {
		t.Fatalf("unexpected custom template output %q", out)
	}
}

func TestRenderRejectsUnknownValueKeys(t *testing.T) {
	path := writeValues(t, "bad.yaml", "nickname: ada\n")
	if _, err := execute(t, "render", "--values", path); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestRenderUnknownRenderer(t *testing.T) {
	if _, err := execute(t, "render", "--renderer", "xml"); err == nil {
		t.Fatal("expected unknown renderer error")
	}
}

func TestPromptRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "prompt", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	if _, err := execute(t, "render", "--log-level", "loud"); err == nil {
		t.Fatal("expected log level error")
	}
}
