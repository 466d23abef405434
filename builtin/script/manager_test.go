package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/agentstation/weave/internal/testutil"
)

func TestParseScript(t *testing.T) {
	content := `-- @name: scale
-- @category: math
-- @description: Multiplies value by factor
-- @version: 1.2.0
-- @inputs: value, factor
-- @outputs: result
-- @name: ignored: after a colon
-- plain comment
function evaluate(inputs)
  -- @name: not a header
  return { result = inputs.value * inputs.factor }
end
`
	got := ParseScript(content)
	want := &Script{
		Name:        "ignored: after a colon",
		Category:    "math",
		Description: "Multiplies value by factor",
		Version:     "1.2.0",
		Inputs:      []string{"value", "factor"},
		Outputs:     []string{"result"},
		Content:     content,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}

	if got := ParseScript("function evaluate(i) return {} end"); got.Category != "script" || got.Name != "" {
		t.Errorf("headerless script parsed as %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"valid", "function evaluate(i) return {} end", false},
		{"syntax error", "function evaluate(", true},
		{"top-level error", `error("boom")`, true},
		{"no entry point", "function run() end", true},
		{"entry point not a function", "evaluate = 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.src)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManagerDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "double.lua"), "-- @inputs: v\n-- @outputs: v\nfunction evaluate(i) return { v = i.v * 2 } end\n")
	writeFile(t, filepath.Join(dir, "nested", "named.lua"), "-- @name: renamed\nfunction evaluate(i) return {} end\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a script")

	logger := testutil.NewMockLogger()
	m := NewManager(dir, logger)
	if m.Dir() != dir {
		t.Errorf("Dir() = %s", m.Dir())
	}
	if err := m.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, s := range m.ListScripts() {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"double", "renamed"}, names); diff != "" {
		t.Errorf("scripts mismatch (-want +got):\n%s", diff)
	}

	s, ok := m.GetScript("double")
	if !ok {
		t.Fatal("double not found")
	}
	want := &Script{
		Name:     "double",
		Path:     filepath.Join(dir, "double.lua"),
		Category: "script",
		Inputs:   []string{"v"},
		Outputs:  []string{"v"},
	}
	if diff := cmp.Diff(want, s, cmpopts.IgnoreFields(Script{}, "Content")); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}

	if !logger.HasEntry("debug", "discovered script") {
		t.Error("expected discovery to be logged")
	}
}

func TestManagerDiscoverMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"), nil)
	if err := m.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(m.ListScripts()) != 0 {
		t.Error("expected no scripts")
	}
}

func TestNewManagerDefaultDir(t *testing.T) {
	m := NewManager("", nil)
	if filepath.Base(m.Dir()) != "scripts" || filepath.Base(filepath.Dir(m.Dir())) != ".weave" {
		t.Errorf("unexpected default dir %s", m.Dir())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
