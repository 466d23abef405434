package testutil

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/agentstation/weave"
)

// Assert provides test assertions.
type Assert struct {
	t *testing.T
}

// NewAssert creates a new assert helper.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Equal asserts that two values are equal.
func (a *Assert) Equal(expected, actual any, msgAndArgs ...any) {
	a.t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		a.fail(fmt.Sprintf("Expected: %v\nActual: %v", expected, actual), msgAndArgs...)
	}
}

// True asserts that a value is true.
func (a *Assert) True(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if !value {
		a.fail("Expected true, but got false", msgAndArgs...)
	}
}

// False asserts that a value is false.
func (a *Assert) False(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if value {
		a.fail("Expected false, but got true", msgAndArgs...)
	}
}

// Error asserts that an error occurred.
func (a *Assert) Error(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err == nil {
		a.fail("Expected error, but got nil", msgAndArgs...)
	}
}

// NoError asserts that no error occurred.
func (a *Assert) NoError(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err != nil {
		a.fail(fmt.Sprintf("Unexpected error: %v", err), msgAndArgs...)
	}
}

// ErrorIs asserts that err matches target with errors.Is.
func (a *Assert) ErrorIs(err, target error, msgAndArgs ...any) {
	a.t.Helper()
	if !errors.Is(err, target) {
		a.fail(fmt.Sprintf("Expected error matching %v, but got: %v", target, err), msgAndArgs...)
	}
}

// Contains asserts that a string contains a substring.
func (a *Assert) Contains(s, substr string, msgAndArgs ...any) {
	a.t.Helper()
	if !strings.Contains(s, substr) {
		a.fail(fmt.Sprintf("Expected %q to contain %q", s, substr), msgAndArgs...)
	}
}

// Len asserts the length of a slice, map or string.
func (a *Assert) Len(collection any, length int, msgAndArgs ...any) {
	a.t.Helper()
	if l := reflect.ValueOf(collection).Len(); l != length {
		a.fail(fmt.Sprintf("Expected length %d, but got %d", length, l), msgAndArgs...)
	}
}

func (a *Assert) fail(message string, msgAndArgs ...any) {
	a.t.Helper()
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			message = fmt.Sprintf(format, msgAndArgs[1:]...) + "\n" + message
		}
	}
	a.t.Fatal(message)
}

// GraphAssert provides graph-specific assertions.
type GraphAssert struct {
	*Assert
}

// NewGraphAssert creates a new graph assert helper.
func NewGraphAssert(t *testing.T) *GraphAssert {
	return &GraphAssert{Assert: NewAssert(t)}
}

// Evaluates calls n and fails the test on error.
func (ga *GraphAssert) Evaluates(n weave.Node) {
	ga.t.Helper()
	if err := n.Call(context.Background()); err != nil {
		ga.fail(fmt.Sprintf("Evaluation of %s failed: %v", n.Name(), err))
	}
}

// FailsWith calls n and asserts the error matches target.
func (ga *GraphAssert) FailsWith(n weave.Node, target error) error {
	ga.t.Helper()
	err := n.Call(context.Background())
	ga.ErrorIs(err, target)
	return err
}

// HasValue asserts that refs holds want under name.
func (ga *GraphAssert) HasValue(refs *weave.Refs, name string, want any) {
	ga.t.Helper()
	got, err := refs.Get(name)
	if err != nil {
		ga.fail(fmt.Sprintf("Reading %s from %s: %v", name, refs.Label(), err))
	}
	ga.Equal(want, got, "value of %s in %s", name, refs.Label())
}

// IsUnset asserts that the named cell of refs is declared but uninitialized.
func (ga *GraphAssert) IsUnset(refs *weave.Refs, name string) {
	ga.t.Helper()
	_, err := refs.Get(name)
	ga.ErrorIs(err, weave.ErrUninitialized, "%s in %s should be unset", name, refs.Label())
}
