package luascript

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multisplice"
	"github.com/dshills/multisplice/internal/units"
)

// splicerModule exposes a Splicer to Lua as global functions.
type splicerModule struct {
	splicer *multisplice.Splicer
	conv    *units.Converter
}

// splicerErrorType names the metatable of errors raised by the module.
const splicerErrorType = "multisplice.error"

// splicerError is the Lua error value raised by a failing splicer call.
// Scripts see it through tostring; Run unwraps it back to err.
type splicerError struct {
	fn  string
	err error
}

func (e *splicerError) Error() string {
	return fmt.Sprintf("%s: %v", e.fn, e.err)
}

// goError returns the splicer error carried by a Lua run error, if the
// value that ended the script is one.
func goError(runErr error) (error, bool) {
	var apiErr *lua.ApiError
	if !errors.As(runErr, &apiErr) {
		return nil, false
	}
	ud, ok := apiErr.Object.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	se, ok := ud.Value.(*splicerError)
	if !ok {
		return nil, false
	}
	return se.err, true
}

func (m *splicerModule) register(L *lua.LState) {
	mt := L.NewTypeMetatable(splicerErrorType)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if se, ok := ud.Value.(*splicerError); ok {
			L.Push(lua.LString(se.Error()))
		} else {
			L.Push(lua.LString(splicerErrorType))
		}
		return 1
	}))

	L.SetGlobal("source", L.NewFunction(m.source))
	L.SetGlobal("len", L.NewFunction(m.length))
	L.SetGlobal("splice", L.NewFunction(m.splice))
	L.SetGlobal("splice_range", L.NewFunction(m.spliceRange))
	L.SetGlobal("insert", L.NewFunction(m.insert))
	L.SetGlobal("remove", L.NewFunction(m.remove))
	L.SetGlobal("render", L.NewFunction(m.render))
}

// raise ends the calling Lua function with err. The error value is a
// userdata so pcall can catch it and error() can rethrow it intact.
func (m *splicerModule) raise(L *lua.LState, fn string, err error) int {
	ud := L.NewUserData()
	ud.Value = &splicerError{fn: fn, err: err}
	L.SetMetatable(ud, L.GetTypeMetatable(splicerErrorType))
	L.Error(ud, 1)
	return 0
}

// source() -> string
func (m *splicerModule) source(L *lua.LState) int {
	L.Push(lua.LString(m.splicer.Original()))
	return 1
}

// len() -> number
func (m *splicerModule) length(L *lua.LState) int {
	L.Push(lua.LNumber(m.conv.Count()))
	return 1
}

// splice(start, end, text)
func (m *splicerModule) splice(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	text := L.OptString(3, "")

	bs, be, err := m.conv.ToBytes(start, end)
	if err != nil {
		return m.raise(L, "splice", err)
	}
	if err := m.splicer.Splice(bs, be, text); err != nil {
		return m.raise(L, "splice", err)
	}
	return 0
}

// splice_range(spelling, text)
func (m *splicerModule) spliceRange(L *lua.LState) int {
	spelling := L.CheckString(1)
	text := L.OptString(2, "")

	r, err := multisplice.ParseRange(spelling)
	if err != nil {
		return m.raise(L, "splice_range", err)
	}
	bs, be, err := m.conv.ResolveRange(r)
	if err != nil {
		return m.raise(L, "splice_range", err)
	}
	if err := m.splicer.Splice(bs, be, text); err != nil {
		return m.raise(L, "splice_range", err)
	}
	return 0
}

// insert(at, text)
func (m *splicerModule) insert(L *lua.LState) int {
	at := L.CheckInt(1)
	text := L.CheckString(2)

	b, err := m.conv.ToByte(at)
	if err != nil {
		return m.raise(L, "insert", err)
	}
	if err := m.splicer.Insert(b, text); err != nil {
		return m.raise(L, "insert", err)
	}
	return 0
}

// remove(start, end)
func (m *splicerModule) remove(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	bs, be, err := m.conv.ToBytes(start, end)
	if err != nil {
		return m.raise(L, "remove", err)
	}
	if err := m.splicer.Remove(bs, be); err != nil {
		return m.raise(L, "remove", err)
	}
	return 0
}

// render() -> string
func (m *splicerModule) render(L *lua.LState) int {
	out, err := m.splicer.Render()
	if err != nil {
		return m.raise(L, "render", err)
	}
	L.Push(lua.LString(out))
	return 1
}
