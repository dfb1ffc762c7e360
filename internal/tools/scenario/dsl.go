package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	stepTypeName     = "scenario_step"
)

// Scenario is an ordered list of steps loaded from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scenario instruction.
type Step struct {
	Kind string
	Args map[string]any
}

// stepRef lets Lua chain expectations onto the step that produced it.
type stepRef struct {
	scenario  *Scenario
	stepIndex int
}

// LoadScenarioFromFile runs a Lua scenario script and returns the Scenario it
// builds. The script must return the Scenario value.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	registerScenarioType(state)
	registerStepType(state)
	registerScenarioConstructor(state)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerStepType(state *lua.State) {
	lua.NewMetaTable(state, stepTypeName)
	state.NewTable()
	lua.SetFunctions(state, stepMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "session", Function: scenarioSession},
	{Name: "player", Function: scenarioPlayer},
	{Name: "start", Function: scenarioStart},
	{Name: "kill", Function: scenarioKill},
	{Name: "revive", Function: scenarioRevive},
	{Name: "propose", Function: scenarioPropose},
	{Name: "replace", Function: scenarioReplace},
	{Name: "complete", Function: scenarioComplete},
	{Name: "abandon", Function: scenarioAbandon},
	{Name: "expect_error", Function: scenarioExpectError},
	{Name: "expect_character", Function: scenarioExpectCharacter},
	{Name: "expect_dead", Function: scenarioExpectDead},
	{Name: "expect_alive", Function: scenarioExpectAlive},
}

func scenarioSession(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 2)
	appendStep(scenario, "session", data)
	return 0
}

func scenarioPlayer(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if requiredString(data, "id") == "" {
		lua.Errorf(state, "player id is required")
		return 0
	}
	if _, ok := data["character"]; !ok {
		lua.Errorf(state, "player character is required")
		return 0
	}
	appendStep(scenario, "player", data)
	return 0
}

func scenarioStart(state *lua.State) int {
	scenario := checkScenario(state)
	return pushStepRef(state, scenario, appendStep(scenario, "start", nil))
}

func scenarioKill(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["player"] = playerID
	return pushStepRef(state, scenario, appendStep(scenario, "kill", data))
}

func scenarioRevive(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["player"] = playerID
	return pushStepRef(state, scenario, appendStep(scenario, "revive", data))
}

func scenarioPropose(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	return pushStepRef(state, scenario, appendStep(scenario, "propose", data))
}

func scenarioReplace(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	data := optionalTable(state, 4)
	identity := tableToMap(state, 3)
	data["player"] = playerID
	data["name"] = identity["name"]
	data["type"] = identity["type"]
	return pushStepRef(state, scenario, appendStep(scenario, "replace", data))
}

func scenarioComplete(state *lua.State) int {
	scenario := checkScenario(state)
	return pushStepRef(state, scenario, appendStep(scenario, "complete", nil))
}

func scenarioAbandon(state *lua.State) int {
	scenario := checkScenario(state)
	return pushStepRef(state, scenario, appendStep(scenario, "abandon", nil))
}

func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.Errorf(state, "expect_error requires a preceding step")
		return 0
	}
	setExpectedError(state, scenario, len(scenario.Steps)-1, code)
	return 0
}

func scenarioExpectCharacter(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	identity := tableToMap(state, 3)
	appendStep(scenario, "expect_character", map[string]any{
		"player": playerID,
		"name":   identity["name"],
		"type":   identity["type"],
	})
	return 0
}

func scenarioExpectDead(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	appendStep(scenario, "expect_dead", map[string]any{"player": playerID})
	return 0
}

func scenarioExpectAlive(state *lua.State) int {
	scenario := checkScenario(state)
	playerID := lua.CheckString(state, 2)
	appendStep(scenario, "expect_alive", map[string]any{"player": playerID})
	return 0
}

var stepMethods = []lua.RegistryFunction{
	{Name: "expect_error", Function: stepExpectError},
}

func stepExpectError(state *lua.State) int {
	ud := lua.CheckUserData(state, 1, stepTypeName)
	ref, ok := ud.(*stepRef)
	if !ok || ref == nil {
		lua.Errorf(state, "invalid scenario step")
		return 0
	}
	code := lua.CheckString(state, 2)
	setExpectedError(state, ref.scenario, ref.stepIndex, code)
	return 0
}

func setExpectedError(state *lua.State, scenario *Scenario, stepIndex int, code string) {
	if stepIndex < 0 || stepIndex >= len(scenario.Steps) {
		lua.Errorf(state, "scenario step is out of range")
		return
	}
	step := &scenario.Steps[stepIndex]
	if !expectsOutcome(step.Kind) {
		lua.Errorf(state, "%s steps cannot expect an error", step.Kind)
		return
	}
	code = strings.TrimSpace(code)
	if code == "" {
		lua.Errorf(state, "error code is required")
		return
	}
	if step.Args == nil {
		step.Args = map[string]any{}
	}
	step.Args["expect_error"] = code
}

// expectsOutcome reports whether a step kind talks to the session and can
// therefore be rejected.
func expectsOutcome(kind string) bool {
	switch kind {
	case "start", "kill", "revive", "propose", "replace", "complete", "abandon":
		return true
	default:
		return false
	}
}

func pushStepRef(state *lua.State, scenario *Scenario, stepIndex int) int {
	state.PushUserData(&stepRef{scenario: scenario, stepIndex: stepIndex})
	lua.SetMetaTableNamed(state, stepTypeName)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
