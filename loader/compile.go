// Package loader loads Lua lesson content into Go structs at load time.
// The Lua VM is discarded after loading; zero Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/tutorcore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawLesson holds a lesson table before compilation.
type rawLesson struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or the default if
// missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or the default if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into lesson definitions.
func compile(coll *collector) ([]types.LessonDef, error) {
	if len(coll.lessons) == 0 {
		return nil, fmt.Errorf("no Lesson definitions found")
	}

	lessons := make([]types.LessonDef, 0, len(coll.lessons))
	for _, raw := range coll.lessons {
		lesson, err := compileLesson(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling lesson %s: %w", raw.id, err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

func compileLesson(raw rawLesson) (types.LessonDef, error) {
	tbl := raw.table
	lesson := types.LessonDef{
		ID:                     raw.id,
		Title:                  getString(tbl, "title"),
		Intro:                  compileScript(getTable(tbl, "intro")),
		MaxAttempts:            getInt(tbl, "max_attempts", 2),
		AlmostThreshold:        getNumber(tbl, "almost_threshold", 0.8),
		PassThreshold:          getNumber(tbl, "pass_threshold", 0.5),
		CaseSensitive:          getBool(tbl, "case_sensitive", false),
		MalformedCountsAttempt: getBool(tbl, "malformed_counts_attempt", false),
		Tiers:                  map[types.Tier]types.TierContent{},
		Conclusions:            map[types.Tier]types.Conclusion{},
	}

	tiersTbl := getTable(tbl, "tiers")
	if tiersTbl == nil {
		return lesson, fmt.Errorf("no tiers table")
	}
	var tierErr error
	tiersTbl.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		contentTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		tier, err := parseTier(string(name))
		if err != nil {
			tierErr = err
			return
		}
		lesson.Tiers[tier] = compileTierContent(contentTbl)
	})
	if tierErr != nil {
		return lesson, tierErr
	}

	if conclTbl := getTable(tbl, "conclusions"); conclTbl != nil {
		var conclErr error
		conclTbl.ForEach(func(k, v lua.LValue) {
			name, ok := k.(lua.LString)
			if !ok {
				return
			}
			pair, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			tier, err := parseTier(string(name))
			if err != nil {
				conclErr = err
				return
			}
			lesson.Conclusions[tier] = types.Conclusion{
				Pass: getString(pair, "pass"),
				Fail: getString(pair, "fail"),
			}
		})
		if conclErr != nil {
			return lesson, conclErr
		}
	}

	return lesson, nil
}

// parseTier maps a Lua tier key to a Tier. The aliases "average" and
// "perfect" come from older lesson packs and stay accepted.
func parseTier(name string) (types.Tier, error) {
	switch name {
	case "struggling":
		return types.TierStruggling, nil
	case "novice":
		return types.TierNovice, nil
	case "competent", "average":
		return types.TierCompetent, nil
	case "master", "perfect":
		return types.TierMaster, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", name)
	}
}

func compileTierContent(tbl *lua.LTable) types.TierContent {
	content := types.TierContent{
		Teaching: compileScript(getTable(tbl, "teaching")),
	}
	if questionsTbl := getTable(tbl, "questions"); questionsTbl != nil {
		questionsTbl.ForEach(func(k, v lua.LValue) {
			// Only process integer-keyed entries (array elements).
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if qTbl, ok := v.(*lua.LTable); ok {
				content.Questions = append(content.Questions, compileQuestion(qTbl))
			}
		})
	}
	return content
}

func compileQuestion(tbl *lua.LTable) types.QuestionDef {
	q := types.QuestionDef{
		ID:           getString(tbl, "__question_id"),
		Prompt:       getString(tbl, "prompt"),
		Answer:       getString(tbl, "answer"),
		Hint:         getString(tbl, "hint"),
		DetailedHint: getString(tbl, "detailed_hint"),
		Explanation:  getString(tbl, "explanation"),
		Success:      getString(tbl, "success"),
	}

	if acceptsTbl := getTable(tbl, "accepts"); acceptsTbl != nil {
		acceptsTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if s, ok := v.(lua.LString); ok {
				q.Accepts = append(q.Accepts, string(s))
			}
		})
	}

	if checksTbl := getTable(tbl, "checks"); checksTbl != nil {
		checksTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if cTbl, ok := v.(*lua.LTable); ok {
				q.Checks = append(q.Checks, compileCheck(cTbl))
			}
		})
	}

	if fieldsTbl := getTable(tbl, "fields"); fieldsTbl != nil {
		fieldsTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			if fTbl, ok := v.(*lua.LTable); ok {
				q.Fields = append(q.Fields, types.FieldDef{
					Label:  getString(fTbl, "label"),
					Accept: getString(fTbl, "accept"),
				})
			}
		})
	}

	return q
}

func compileCheck(tbl *lua.LTable) types.CheckRule {
	return types.CheckRule{
		Type:    getString(tbl, "type"),
		Value:   getString(tbl, "value"),
		Open:    getString(tbl, "open"),
		Close:   getString(tbl, "close"),
		Message: getString(tbl, "message"),
	}
}

func compileScript(tbl *lua.LTable) types.Script {
	if tbl == nil {
		return nil
	}
	var script types.Script
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		lineTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		script = append(script, types.DialogueLine{
			Speaker:  types.Speaker(getString(lineTbl, "speaker")),
			Text:     getString(lineTbl, "text"),
			Portrait: getString(lineTbl, "portrait"),
		})
	})
	return script
}

// sortedLuaFiles returns .lua files in a directory, with lesson.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var lessonFile string
	var others []string
	for _, f := range files {
		if f == "lesson.lua" {
			lessonFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if lessonFile != "" {
		return append([]string{lessonFile}, others...)
	}
	return others
}
