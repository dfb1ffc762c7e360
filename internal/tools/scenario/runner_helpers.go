package scenario

import (
	"strings"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/session"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func (r *Runner) ensureSession(state *scenarioState) error {
	if state.sessionID == "" {
		return r.failf("session is required")
	}
	if state.finished {
		return r.failf("session %s already finished", state.sessionID)
	}
	return nil
}

func (r *Runner) snapshot(state *scenarioState) (session.Snapshot, error) {
	if err := r.ensureSession(state); err != nil {
		return session.Snapshot{}, err
	}
	snap, err := r.host.Snapshot(state.sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	state.version = snap.Version
	return snap, nil
}

// expectOutcome reconciles a step result with its expect_error annotation.
// Unexpected domain rejections count as failed expectations; anything else
// aborts the scenario.
func (r *Runner) expectOutcome(step Step, err error) error {
	want := requiredString(step.Args, "expect_error")
	if want == "" {
		if err == nil {
			return nil
		}
		if _, ok := apperrors.As(err); ok {
			return r.assertf("unexpected rejection %s: %v", apperrors.CodeOf(err), err)
		}
		return err
	}
	if err == nil {
		return r.assertf("expected error %s, got success", want)
	}
	if got := apperrors.CodeOf(err); string(got) != want {
		return r.assertf("error code = %s, want %s (%v)", got, want, err)
	}
	r.logf("rejected as expected: %s", want)
	return nil
}

func identityArg(args map[string]any) character.Identity {
	return character.Identity{
		Name: stringArg(args, "name"),
		Type: stringArg(args, "type"),
	}
}

// stringArg returns the raw string value, blank or not.
func stringArg(args map[string]any, key string) string {
	text, _ := args[key].(string)
	return text
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func optionalInt(args map[string]any, key string, fallback int) int {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case int:
		return typed
	case float64:
		return int(typed)
	default:
		return fallback
	}
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		lower := strings.ToLower(strings.TrimSpace(typed))
		if lower == "true" || lower == "yes" || lower == "1" {
			return true
		}
		if lower == "false" || lower == "no" || lower == "0" {
			return false
		}
	}
	return fallback
}
