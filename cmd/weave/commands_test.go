package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testdata = "../../graphdef/testdata"

// execute runs the root command with args and returns what it wrote to
// stdout. Global flag state is reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose = false
	output = textFormat
	scriptsDir = t.TempDir()
	runSets = nil
	runDryRun = false
	runTimeout = 0
	runRetries = 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestRunCommand(t *testing.T) {
	for _, file := range []string{"two_adder.yaml", "two_adder.hcl"} {
		t.Run(file, func(t *testing.T) {
			out, err := execute(t, "run", filepath.Join(testdata, file), "--set", "a=1", "--set", "b=10", "--set", "c=100")
			if err != nil {
				t.Fatal(err)
			}
			if strings.TrimSpace(out) != "d: 111" {
				t.Errorf("unexpected output %q", out)
			}
		})
	}

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "run", filepath.Join(testdata, "nested.yaml"), "--output", "json")
		if err != nil {
			t.Fatal(err)
		}
		var got map[string]any
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if got["value"] != "foo" {
			t.Errorf("value = %v", got["value"])
		}
	})

	t.Run("with retries and timeout", func(t *testing.T) {
		out, err := execute(t, "run", filepath.Join(testdata, "two_adder.yaml"),
			"--set", "a=1", "--set", "b=2", "--set", "c=3", "--retries", "2", "--timeout", "5s", "-v")
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(out) != "d: 6" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		out, err := execute(t, "run", filepath.Join(testdata, "two_adder.yaml"), "--dry-run")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "two-adder is valid") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		if _, err := execute(t, "run", filepath.Join(testdata, "two_adder.yaml"), "--set", "a=1"); err == nil {
			t.Fatal("expected error for uninitialized inputs")
		}
	})

	t.Run("unknown input", func(t *testing.T) {
		if _, err := execute(t, "run", filepath.Join(testdata, "two_adder.yaml"), "--set", "q=1"); err == nil {
			t.Fatal("expected error for undeclared input")
		}
	})

	t.Run("bad output format", func(t *testing.T) {
		if _, err := execute(t, "run", filepath.Join(testdata, "two_adder.yaml"), "--output", "xml"); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestRunCommandWithScript(t *testing.T) {
	dir := t.TempDir()
	script := `-- @name: greet
-- @inputs: name
-- @outputs: greeting
function evaluate(inputs)
  return { greeting = "hello " .. inputs.name }
end
`
	graph := `name: greeter
inputs: [name]
outputs: [greeting]
nodes:
  - name: g
    type: greet
proxy_inputs:
  - node: g
proxy_outputs:
  - node: g
`
	writeTestFile(t, filepath.Join(dir, "scripts", "greet.lua"), script)
	writeTestFile(t, filepath.Join(dir, "greeter.yaml"), graph)

	out, err := execute(t, "run", filepath.Join(dir, "greeter.yaml"), "--set", "name=weave", "--scripts-dir", filepath.Join(dir, "scripts"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "greeting: hello weave" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate",
		filepath.Join(testdata, "two_adder.yaml"),
		filepath.Join(testdata, "nested.hcl"))
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if strings.Count(out, "ok ") != 2 {
		t.Errorf("expected two ok lines:\n%s", out)
	}

	out, err = execute(t, "validate", filepath.Join(testdata, "two_adder.yaml"), filepath.Join(testdata, "unknown_key.yaml"))
	if err == nil {
		t.Fatal("expected error for invalid definition")
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "unknown_key.yaml") {
		t.Errorf("expected failure line:\n%s", out)
	}
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", filepath.Join(testdata, "two_adder.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1. first", "2. second", "first.z -> second.x", "$self.a -> first.x", "second.z -> $self.d"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	out, err = execute(t, "graph", filepath.Join(testdata, "nested.yaml"), "--output", "json")
	if err != nil {
		t.Fatal(err)
	}
	var snapshot struct {
		Name     string
		Children []struct {
			Name  string
			Graph *struct{ Name string }
		}
	}
	if err := json.Unmarshal([]byte(out), &snapshot); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if snapshot.Name != "outer" || len(snapshot.Children) != 1 || snapshot.Children[0].Graph == nil {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
}

func TestNodesCommand(t *testing.T) {
	out, err := execute(t, "nodes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Math:", "divide", "jsonpath", "lua", "Total: 8 node types"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	out, err = execute(t, "nodes", "info", "divide")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Node Type: divide") || !strings.Contains(out, "Inputs: x, y") {
		t.Errorf("unexpected info output:\n%s", out)
	}

	if _, err := execute(t, "nodes", "info", "teleport"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestScriptsCommand(t *testing.T) {
	out, err := execute(t, "scripts")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No scripts found") {
		t.Errorf("unexpected output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "ok.lua")
	writeTestFile(t, path, "-- @inputs: a\n-- @outputs: b\nfunction evaluate(i) return { b = i.a } end\n")
	out, err = execute(t, "scripts", "validate", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Script ok is valid") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.lua")
	writeTestFile(t, bad, "function run() end\n")
	if _, err := execute(t, "scripts", "validate", bad); err == nil {
		t.Error("expected error for script without evaluate")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "weave version dev") {
		t.Errorf("unexpected output %q", out)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
