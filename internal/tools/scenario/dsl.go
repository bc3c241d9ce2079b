package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps built by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action with its Lua arguments converted to Go values.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs the Lua script at path and returns the Scenario it
// builds. Scenarios without a name take the file's base name.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenarioFromString runs Lua source and returns the Scenario it builds.
func LoadScenarioFromString(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
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
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
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

var scenarioMethods = []lua.RegistryFunction{
	{Name: "config", Function: scenarioConfig},
	{Name: "player", Function: scenarioPlayer},
	{Name: "random_player", Function: scenarioRandomPlayer},
	{Name: "match", Function: scenarioMatch},
	{Name: "round", Function: scenarioRound},
	{Name: "expect", Function: scenarioExpect},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioConfig(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, stepConfig, tableToMap(state, 2))
	return 1
}

func scenarioPlayer(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, stepPlayer, data)
	return 1
}

func scenarioRandomPlayer(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, stepRandomPlayer, data)
	return 1
}

func scenarioMatch(state *lua.State) int {
	scenario := checkScenario(state)
	a := lua.CheckString(state, 2)
	b := lua.CheckString(state, 3)
	data := optionalTable(state, 4)
	data["a"] = a
	data["b"] = b
	appendStep(scenario, stepMatch, data)
	return 1
}

func scenarioRound(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, stepRound, optionalTable(state, 2))
	return 1
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	data := tableToMap(state, 3)
	data["name"] = name
	appendStep(scenario, stepExpect, data)
	return 1
}

// checkScenario returns the receiver and leaves it on top of the stack so
// methods can be chained.
func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		lua.ArgumentError(state, 1, "scenario expected")
		return nil
	}
	state.PushValue(1)
	return scenario
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
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
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts sequences to []any and everything else to map[string]any.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
