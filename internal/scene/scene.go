// Package scene loads named command sequences from a Lua file. A scene is an
// ordered list of operations bound to one gateway; it runs through the batch
// runner so multi-command sequences get on the air quickly.
//
// The definition file calls the scene() builtin:
//
//	scene("evening", 0, {
//	    { op = "on", group = 0 },
//	    { op = "set_brightness", group = 1, brightness = 40 },
//	    { op = "set_color", group = 1, color = "orange" },
//	})
package scene

import (
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/luxbridge/milightd/internal/dispatch"
)

// Scene is a registered command sequence.
type Scene struct {
	Name    string
	Gateway int
	Steps   []dispatch.Op
}

// Library holds the scenes registered by a definition file.
type Library struct {
	scenes map[string]Scene
	order  []string
}

// Load evaluates the Lua definition file and collects its scenes. The VM is
// closed before Load returns; Lua only runs at configuration time.
func Load(path string) (*Library, error) {
	lib := &Library{scenes: make(map[string]Scene)}

	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("scene", L.NewFunction(lib.registerScene))

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("failed to load scenes from %s: %w", path, err)
	}

	log.Info().Int("scenes", len(lib.scenes)).Str("path", path).Msg("Loaded scene definitions")
	return lib, nil
}

// registerScene implements the scene(name, gateway, steps) builtin.
func (lib *Library) registerScene(L *lua.LState) int {
	name := L.CheckString(1)
	gateway := L.CheckInt(2)
	stepsTable := L.CheckTable(3)

	if name == "" {
		L.RaiseError("scene name must not be empty")
	}
	if _, exists := lib.scenes[name]; exists {
		L.RaiseError("scene %q is already defined", name)
	}

	var steps []dispatch.Op
	var stepErr string
	stepsTable.ForEach(func(_, v lua.LValue) {
		if stepErr != "" {
			return
		}
		tbl, ok := v.(*lua.LTable)
		if !ok {
			stepErr = fmt.Sprintf("scene %q: every step must be a table", name)
			return
		}
		op, err := stepFromTable(gateway, tbl)
		if err != nil {
			stepErr = fmt.Sprintf("scene %q: %v", name, err)
			return
		}
		steps = append(steps, op)
	})
	if stepErr != "" {
		L.RaiseError("%s", stepErr)
	}
	if len(steps) == 0 {
		L.RaiseError("scene %q has no steps", name)
	}

	lib.scenes[name] = Scene{Name: name, Gateway: gateway, Steps: steps}
	lib.order = append(lib.order, name)
	return 0
}

// stepFromTable converts one Lua step table into an operation.
func stepFromTable(gateway int, tbl *lua.LTable) (dispatch.Op, error) {
	op := dispatch.Op{Gateway: gateway}

	name := tbl.RawGetString("op")
	s, ok := name.(lua.LString)
	if !ok {
		return op, fmt.Errorf("step is missing the op field")
	}
	op.Name = string(s)

	if v := tbl.RawGetString("group"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok {
			return op, fmt.Errorf("step %q: group must be a number", op.Name)
		}
		op.Group = int(n)
	}
	if v := tbl.RawGetString("color"); v != lua.LNil {
		c, ok := v.(lua.LString)
		if !ok {
			return op, fmt.Errorf("step %q: color must be a string", op.Name)
		}
		op.Color = string(c)
	}
	if v := tbl.RawGetString("brightness"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok {
			return op, fmt.Errorf("step %q: brightness must be a number", op.Name)
		}
		f := float64(n)
		op.Brightness = &f
	}
	return op, nil
}

// Get returns a registered scene by name.
func (lib *Library) Get(name string) (Scene, bool) {
	s, ok := lib.scenes[name]
	return s, ok
}

// Names lists the registered scenes in definition order.
func (lib *Library) Names() []string {
	return append([]string(nil), lib.order...)
}

// Resolver adapts the library to the dispatch queue.
func (lib *Library) Resolver() dispatch.SceneResolver {
	return func(name string) (int, []dispatch.Op, bool) {
		s, ok := lib.scenes[name]
		if !ok {
			return 0, nil, false
		}
		return s.Gateway, s.Steps, true
	}
}
