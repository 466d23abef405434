package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/builtin"
	"github.com/agentstation/weave/builtin/script"
)

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// parseSets turns name=value pairs into values. Each value is decoded as
// YAML, so numbers, booleans and lists keep their type.
func parseSets(sets []string) (weave.Values, error) {
	values := make(weave.Values, len(sets))
	for _, set := range sets {
		name, raw, ok := strings.Cut(set, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", set)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// newRegistry returns the builtin registry plus discovered scripts. Scripts
// that fail to validate are logged and skipped.
func newRegistry(ctx context.Context, logger weave.Logger) (*builtin.Registry, error) {
	dir, err := expandPath(scriptsDir)
	if err != nil {
		return nil, fmt.Errorf("expand scripts dir: %w", err)
	}

	registry := builtin.NewDefaultRegistry()
	manager := script.NewManager(dir, logger)
	if err := manager.Discover(ctx); err != nil {
		return nil, fmt.Errorf("discover scripts: %w", err)
	}
	for _, err := range builtin.RegisterScripts(registry, manager) {
		logger.Error(ctx, "skipping script", "error", err)
	}
	return registry, nil
}

// writeValue renders v in the selected output format. text falls back to
// YAML for anything that is not a string.
func writeValue(w io.Writer, v any) error {
	switch output {
	case jsonFormat:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	}
}
