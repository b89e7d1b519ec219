package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/duel/ecs"
)

type aiScriptRuntime struct {
	scriptName string
	compiled   *tengo.Compiled
	memory     *tengo.Map
}

const aiDecideDispatchScript = `
decide(__engine, __memory)
`

func (s *AISystem) runScript(w *ecs.World, e ecs.Entity, name string, actor Actor, p aiPerception) error {
	rt, err := s.scriptRuntime(e, name)
	if err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", buildAIScriptEngine(actor, p)); err != nil {
		return err
	}
	if err := rt.compiled.Set("__memory", rt.memory); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *AISystem) scriptRuntime(e ecs.Entity, name string) (*aiScriptRuntime, error) {
	if rt, ok := s.scripts[e]; ok && rt.scriptName == name {
		return rt, nil
	}
	if s.loadScript == nil {
		return nil, fmt.Errorf("ai: no script loader for %q", name)
	}
	src, err := s.loadScript(name)
	if err != nil {
		return nil, fmt.Errorf("ai: load script %s: %w", name, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + aiDecideDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__memory", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile script %s: %w", name, err)
	}
	rt := &aiScriptRuntime{
		scriptName: name,
		compiled:   compiled,
		memory:     &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.scripts[e] = rt
	return rt, nil
}

// Reload drops compiled scripts so the next tick recompiles them.
func (s *AISystem) Reload() {
	s.scripts = map[ecs.Entity]*aiScriptRuntime{}
	s.scriptFails = map[ecs.Entity]bool{}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func buildAIScriptEngine(actor Actor, p aiPerception) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"has_target":      boolObject(p.HasTarget),
		"distance":        &tengo.Float{Value: p.Distance},
		"dx":              &tengo.Float{Value: p.DX},
		"dy":              &tengo.Float{Value: p.DY},
		"detect_range":    &tengo.Float{Value: p.DetectRange},
		"attack_range":    &tengo.Float{Value: p.AttackRange},
		"dash_multiplier": &tengo.Float{Value: p.DashMultiplier},
		"attack_ready":    boolObject(p.AttackReady),
		"dash_ready":      boolObject(p.DashReady),
		"ultimate_ready":  boolObject(p.UltimateReady),
		"grounded":        boolObject(p.Grounded),
		"engaged":         boolObject(p.Engaged),
		"state":           &tengo.String{Value: p.State.String()},
	}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		axis, ok := objectAsFloat(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		actor.Move(axis)
		return tengo.TrueValue, nil
	}}

	values["face"] = &tengo.UserFunction{Name: "face", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		dx, ok := objectAsFloat(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		actor.Face(dx)
		return tengo.TrueValue, nil
	}}

	values["crouch"] = &tengo.UserFunction{Name: "crouch", Value: func(args ...tengo.Object) (tengo.Object, error) {
		held := len(args) == 0 || !args[0].IsFalsy()
		actor.Crouch(held)
		return tengo.TrueValue, nil
	}}

	values["idle"] = &tengo.UserFunction{Name: "idle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		actor.Move(0)
		actor.Crouch(false)
		return tengo.TrueValue, nil
	}}

	for name, fn := range map[string]func(){
		"jump":     actor.Jump,
		"attack":   actor.Attack,
		"dash":     actor.Dash,
		"ultimate": actor.Ultimate,
	} {
		call := fn
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			call()
			return tengo.TrueValue, nil
		}}
	}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}
