package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScenarioStepsAreRecordedInOrder(t *testing.T) {
	path := writeScenarioFixture(t, `-- Setup
local scene = Scenario.new("order")
scene:session({name = "Friday", resurrection = true})
scene:player({id = "A", name = "Ana", character = "Explorer", type = "Scout"})
scene:start()

-- Lifecycle
scene:kill("A")
scene:revive("A")
scene:complete()

return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "order" {
		t.Fatalf("name = %q, want %q", scenario.Name, "order")
	}
	want := []string{"session", "player", "start", "kill", "revive", "complete"}
	if len(scenario.Steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(scenario.Steps), len(want))
	}
	for i, kind := range want {
		if scenario.Steps[i].Kind != kind {
			t.Fatalf("step %d kind = %q, want %q", i, scenario.Steps[i].Kind, kind)
		}
	}

	session := scenario.Steps[0]
	if session.Args["resurrection"] != true {
		t.Fatalf("resurrection = %v, want true", session.Args["resurrection"])
	}
	player := scenario.Steps[1]
	if player.Args["character"] != "Explorer" || player.Args["type"] != "Scout" {
		t.Fatalf("player args = %v", player.Args)
	}
	if scenario.Steps[3].Args["player"] != "A" {
		t.Fatalf("kill player = %v, want A", scenario.Steps[3].Args["player"])
	}
}

func TestScenarioNameDefaultsToFileName(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new()`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "scenario" {
		t.Fatalf("name = %q, want %q", scenario.Name, "scenario")
	}
}

func TestReplaceCopiesIdentityAndOptions(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("replace")
scene:replace("A", {name = "Athlete", type = "Tank"}, {version = 3})
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	step := scenario.Steps[0]
	if step.Args["name"] != "Athlete" || step.Args["type"] != "Tank" {
		t.Fatalf("identity = %v", step.Args)
	}
	if step.Args["version"] != 3 {
		t.Fatalf("version = %v, want 3", step.Args["version"])
	}
}

func TestExpectErrorChainsOntoStep(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("chain")
scene:kill("A"):expect_error("CHARACTER_NOT_DEAD")
scene:propose({name = "Scholar"})
scene:expect_error("CHARACTER_DUPLICATE_IDENTITY")
return scene
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if got := scenario.Steps[0].Args["expect_error"]; got != "CHARACTER_NOT_DEAD" {
		t.Fatalf("kill expect_error = %v", got)
	}
	if got := scenario.Steps[1].Args["expect_error"]; got != "CHARACTER_DUPLICATE_IDENTITY" {
		t.Fatalf("propose expect_error = %v", got)
	}
}

func TestScenarioLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name: "player requires id",
			script: `local scene = Scenario.new("x")
scene:player({character = "Explorer"})
return scene`,
			want: "player id is required",
		},
		{
			name: "player requires character",
			script: `local scene = Scenario.new("x")
scene:player({id = "A"})
return scene`,
			want: "player character is required",
		},
		{
			name: "expect error needs a step",
			script: `local scene = Scenario.new("x")
scene:expect_error("CHARACTER_NOT_DEAD")
return scene`,
			want: "expect_error requires a preceding step",
		},
		{
			name: "expect error on assertion step",
			script: `local scene = Scenario.new("x")
scene:expect_dead("A")
scene:expect_error("CHARACTER_NOT_DEAD")
return scene`,
			want: "expect_dead steps cannot expect an error",
		},
		{
			name:   "must return scenario",
			script: `return 42`,
			want:   "scenario script must return Scenario",
		},
		{
			name:   "syntax error",
			script: `local scene = Scenario.new(`,
			want:   "load lua",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenarioFixture(t, tt.script)
			_, err := LoadScenarioFromFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want %s", err.Error(), tt.want)
			}
		})
	}
}

func writeScenarioFixture(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.lua")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}
