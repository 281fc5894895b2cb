package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerCheckHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Lesson "id" { ... }: curried. Lesson("id") returns a function that
	// takes a table.
	L.SetGlobal("Lesson", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.lessons = append(coll.lessons, rawLesson{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Question "id" { ... }: curried. Returns the table tagged with its
	// ID so it can sit inline in a tier's questions list.
	L.SetGlobal("Question", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__question_id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Tier { teaching = ..., questions = {...} }: pass-through.
	L.SetGlobal("Tier", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))

	// Script { Line(...), Line(...) }: pass-through.
	L.SetGlobal("Script", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))

	// Line(speaker, text [, portrait])
	L.SetGlobal("Line", L.NewFunction(func(L *lua.LState) int {
		speaker := L.CheckString(1)
		text := L.CheckString(2)
		portrait := L.OptString(3, "")
		tbl := L.NewTable()
		tbl.RawSetString("speaker", lua.LString(speaker))
		tbl.RawSetString("text", lua.LString(text))
		tbl.RawSetString("portrait", lua.LString(portrait))
		L.Push(tbl)
		return 1
	}))

	// Field { label = "...", accept = "digits" }: pass-through.
	L.SetGlobal("Field", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))
}

func registerCheckHelpers(L *lua.LState) {
	// EndsWith(suffix [, message])
	L.SetGlobal("EndsWith", L.NewFunction(func(L *lua.LState) int {
		suffix := L.CheckString(1)
		message := L.OptString(2, "")
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("ends_with"))
		tbl.RawSetString("value", lua.LString(suffix))
		tbl.RawSetString("message", lua.LString(message))
		L.Push(tbl)
		return 1
	}))

	// Contains(substring [, message])
	L.SetGlobal("Contains", L.NewFunction(func(L *lua.LState) int {
		sub := L.CheckString(1)
		message := L.OptString(2, "")
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("contains"))
		tbl.RawSetString("value", lua.LString(sub))
		tbl.RawSetString("message", lua.LString(message))
		L.Push(tbl)
		return 1
	}))

	// Balanced(open, close [, message])
	L.SetGlobal("Balanced", L.NewFunction(func(L *lua.LState) int {
		open := L.CheckString(1)
		close := L.CheckString(2)
		message := L.OptString(3, "")
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("balanced"))
		tbl.RawSetString("open", lua.LString(open))
		tbl.RawSetString("close", lua.LString(close))
		tbl.RawSetString("message", lua.LString(message))
		L.Push(tbl)
		return 1
	}))

	// QuotePair(quote [, message])
	L.SetGlobal("QuotePair", L.NewFunction(func(L *lua.LState) int {
		quote := L.CheckString(1)
		message := L.OptString(2, "")
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("quote_pair"))
		tbl.RawSetString("value", lua.LString(quote))
		tbl.RawSetString("message", lua.LString(message))
		L.Push(tbl)
		return 1
	}))
}
