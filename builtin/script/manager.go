// Package script runs Lua scripts as weave node computations.
//
// A script defines an evaluate function that receives the node's inputs as a
// table and returns its outputs as a table. Header comments declare the
// node type a script provides:
//
//	-- @name: scale
//	-- @description: Multiplies value by factor
//	-- @inputs: value, factor
//	-- @outputs: result
//	function evaluate(inputs)
//	  return { result = inputs.value * inputs.factor }
//	end
package script

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/agentstation/weave"
)

// Manager handles script discovery.
type Manager struct {
	scriptsDir string
	scripts    map[string]*Script
	logger     weave.Logger
}

// Script represents a discovered Lua script.
type Script struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Inputs      []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Content     string   `json:"-" yaml:"-"`
}

// NewManager creates a script manager for scriptsDir. An empty directory
// means ~/.weave/scripts. A nil logger discards discovery messages.
func NewManager(scriptsDir string, logger weave.Logger) *Manager {
	if scriptsDir == "" {
		home, _ := os.UserHomeDir()
		scriptsDir = filepath.Join(home, ".weave", "scripts")
	}
	return &Manager{
		scriptsDir: scriptsDir,
		scripts:    make(map[string]*Script),
		logger:     logger,
	}
}

// Dir returns the scripts directory.
func (m *Manager) Dir() string {
	return m.scriptsDir
}

// Discover loads every .lua file under the scripts directory. A missing
// directory yields no scripts. Scripts that fail to load are logged and
// skipped.
func (m *Manager) Discover(ctx context.Context) error {
	if _, err := os.Stat(m.scriptsDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(m.scriptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".lua") {
			return nil
		}

		script, err := LoadScript(path)
		if err != nil {
			m.log(ctx, "failed to load script", "path", path, "error", err)
			return nil
		}

		m.scripts[script.Name] = script
		m.log(ctx, "discovered script", "name", script.Name, "path", script.Path)
		return nil
	})
}

func (m *Manager) log(ctx context.Context, msg string, keysAndValues ...any) {
	if m.logger != nil {
		m.logger.Debug(ctx, msg, keysAndValues...)
	}
}

// LoadScript reads a Lua script and parses its header comments.
func LoadScript(path string) (*Script, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Path is user-provided
	if err != nil {
		return nil, err
	}

	script := ParseScript(string(content))
	script.Path = path
	if script.Name == "" {
		base := filepath.Base(path)
		script.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return script, nil
}

// ParseScript reads the header comments of a script's source. Parsing stops
// at the first line that is not a comment.
func ParseScript(content string) *Script {
	script := &Script{Content: content}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "--")), ":")
		if !ok || !strings.HasPrefix(key, "@") {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "@name":
			script.Name = value
		case "@category":
			script.Category = value
		case "@description":
			script.Description = value
		case "@version":
			script.Version = value
		case "@inputs":
			script.Inputs = splitNames(value)
		case "@outputs":
			script.Outputs = splitNames(value)
		}
	}

	if script.Category == "" {
		script.Category = "script"
	}
	return script
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GetScript returns a discovered script by name.
func (m *Manager) GetScript(name string) (*Script, bool) {
	script, ok := m.scripts[name]
	return script, ok
}

// ListScripts returns all discovered scripts sorted by name.
func (m *Manager) ListScripts() []*Script {
	scripts := make([]*Script, 0, len(m.scripts))
	for _, script := range m.scripts {
		scripts = append(scripts, script)
	}
	slices.SortFunc(scripts, func(a, b *Script) int {
		return strings.Compare(a.Name, b.Name)
	})
	return scripts
}

// Validate checks that content compiles and defines evaluate, without
// calling it.
func Validate(content string) error {
	l := lua.NewState()
	setupSandbox(l)

	if err := lua.LoadString(l, content); err != nil {
		return fmt.Errorf("script validation failed: %w", err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}

	l.Global(EntryPoint)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeFunction {
		return ErrNoEntryPoint
	}
	return nil
}
