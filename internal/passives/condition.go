package passives

import (
	"context"
	"sync"
	"time"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	lua "github.com/yuin/gopher-lua"
)

// evalTimeout bounds a single condition evaluation
var evalTimeout = 50 * time.Millisecond

// Environment answers the state queries a condition expression may make
type Environment interface {
	HasStatus(combatantID, statusID string) bool
	HitPoints(combatantID string) (current, maximum int, ok bool)
}

// Condition is a compiled boolean Lua expression evaluated against an event.
// Expressions see an `event` table and the functions has_status, hp and max_hp.
type Condition struct {
	mu   sync.Mutex
	expr string
	L    *lua.LState
	fn   *lua.LFunction
	env  Environment
}

// CompileCondition compiles expr in a sandboxed VM
func CompileCondition(expr string, env Environment) (*Condition, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	c := &Condition{expr: expr, L: L, env: env}
	c.registerAPI()

	fn, err := L.LoadString("return " + expr)
	if err != nil {
		L.Close()
		return nil, dnderr.Malformedf("condition %q: %v", expr, err)
	}
	c.fn = fn
	return c, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break replay.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}

func (c *Condition) registerAPI() {
	c.L.SetGlobal("has_status", c.L.NewFunction(func(L *lua.LState) int {
		id, status := L.CheckString(1), L.CheckString(2)
		L.Push(lua.LBool(c.env != nil && c.env.HasStatus(id, status)))
		return 1
	}))
	c.L.SetGlobal("hp", c.L.NewFunction(func(L *lua.LState) int {
		current, _, _ := c.hitPoints(L.CheckString(1))
		L.Push(lua.LNumber(current))
		return 1
	}))
	c.L.SetGlobal("max_hp", c.L.NewFunction(func(L *lua.LState) int {
		_, maximum, _ := c.hitPoints(L.CheckString(1))
		L.Push(lua.LNumber(maximum))
		return 1
	}))
}

func (c *Condition) hitPoints(id string) (int, int, bool) {
	if c.env == nil {
		return 0, 0, false
	}
	return c.env.HitPoints(id)
}

// Eval evaluates the expression for ownerID, who plays role in ctx
func (c *Condition) Eval(ctx *rules.EventContext, ownerID string, role rules.Role) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()
	c.L.SetContext(deadline)
	defer c.L.RemoveContext()

	c.L.SetGlobal("event", c.eventTable(ctx, ownerID, role))
	c.L.Push(c.fn)
	if err := c.L.PCall(0, 1, nil); err != nil {
		if deadline.Err() != nil {
			return false, dnderr.Wrapf(deadline.Err(), "condition %q exceeded %s", c.expr, evalTimeout)
		}
		return false, dnderr.Wrapf(err, "evaluate condition %q", c.expr)
	}
	result := c.L.Get(-1)
	c.L.Pop(1)
	return lua.LVAsBool(result), nil
}

func (c *Condition) eventTable(ctx *rules.EventContext, ownerID string, role rules.Role) *lua.LTable {
	t := c.L.NewTable()
	t.RawSetString("window", lua.LString(ctx.Window))
	t.RawSetString("type", lua.LString(ctx.EventType))
	t.RawSetString("source", lua.LString(ctx.SourceID))
	t.RawSetString("target", lua.LString(ctx.TargetID))
	t.RawSetString("owner", lua.LString(ownerID))
	t.RawSetString("role", lua.LString(role))
	t.RawSetString("other", lua.LString(ctx.Other(role)))
	t.RawSetString("melee", lua.LBool(ctx.IsMelee))
	t.RawSetString("ranged", lua.LBool(ctx.IsRanged))
	t.RawSetString("spell", lua.LBool(ctx.IsSpell))
	t.RawSetString("critical", lua.LBool(ctx.IsCritical))
	t.RawSetString("action", lua.LString(ctx.ActionID))
	t.RawSetString("amount", lua.LNumber(ctx.Amount))
	t.RawSetString("damage_type", lua.LString(ctx.DamageType))
	t.RawSetString("status", lua.LString(ctx.StatusID))
	t.RawSetString("tag", lua.LString(ctx.CustomTag))
	return t
}

// Close releases the VM
func (c *Condition) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.L.Close()
}
