package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"

	"github.com/agentstation/weave"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde only", "~", home},
		{"tilde with path", "~/test/path", filepath.Join(home, "test", "path")},
		{"absolute path", "/absolute/path", "/absolute/path"},
		{"relative path", "relative/path", "relative/path"},
		{"tilde inside name", "~user/path", "~user/path"},
		{"empty path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"a=1", "b=2.5", "name=foo", "flag=true", "list=[1, x]", "eq=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	want := weave.Values{
		"a":     uint64(1),
		"b":     2.5,
		"name":  "foo",
		"flag":  true,
		"list":  []any{uint64(1), "x"},
		"eq":    "a=b",
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}

	for _, bad := range []string{"novalue", "=1"} {
		if _, err := parseSets([]string{bad}); err == nil {
			t.Errorf("parseSets(%q) should fail", bad)
		}
	}
}
