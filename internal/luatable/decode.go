// Package luatable decodes serialized Lua tables ("name = { ... }" chunks) into
// nested Go maps. The chunk runs in a sandboxed interpreter with no standard
// libraries, so it can assign values but cannot reach the host.
package luatable

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// maxDepth bounds nesting; deeper tables are treated as a decode failure.
const maxDepth = 64

// ErrEmpty is returned when a chunk runs but assigns no usable globals.
var ErrEmpty = errors.New("luatable: chunk assigned no values")

// Table is a decoded Lua table. Values are Table, string, float64 or bool.
type Table map[string]any

// Sub returns the nested table stored under key.
func (t Table) Sub(key string) (Table, bool) {
	v, ok := t[key].(Table)
	return v, ok
}

// String returns the string stored under key. Numbers are rendered the way
// Lua would coerce them.
func (t Table) String(key string) (string, bool) {
	switch v := t[key].(type) {
	case string:
		return v, true
	case float64:
		return formatNumber(v), true
	}
	return "", false
}

// SortedKeys returns integer keys in ascending numeric order followed by all
// other keys in lexicographic order.
func (t Table) SortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseInt(keys[i], 10, 64)
		b, bErr := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Decode runs text as a Lua chunk and returns every global it assigned.
// Cancellation of ctx aborts a runaway chunk.
func Decode(ctx context.Context, text string) (Table, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(text); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("luatable: decode aborted: %w", ctxErr)
		}
		return nil, fmt.Errorf("luatable: %w", err)
	}

	// _G would point back at the globals table itself.
	L.G.Global.RawSetString("_G", lua.LNil)
	out, err := convertTable(L.G.Global, 0, make(map[*lua.LTable]bool))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func convertTable(lt *lua.LTable, depth int, onPath map[*lua.LTable]bool) (Table, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("luatable: nesting deeper than %d", maxDepth)
	}
	if onPath[lt] {
		return nil, errors.New("luatable: self-referencing table")
	}
	onPath[lt] = true
	defer delete(onPath, lt)

	out := make(Table)
	var firstErr error
	lt.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		key, ok := convertKey(k)
		if !ok {
			return
		}
		val, keep, err := convertValue(v, depth, onPath)
		if err != nil {
			firstErr = err
			return
		}
		if keep {
			out[key] = val
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func convertKey(k lua.LValue) (string, bool) {
	switch kv := k.(type) {
	case lua.LString:
		return string(kv), true
	case lua.LNumber:
		return formatNumber(float64(kv)), true
	case lua.LBool:
		return strconv.FormatBool(bool(kv)), true
	}
	return "", false
}

func convertValue(v lua.LValue, depth int, onPath map[*lua.LTable]bool) (any, bool, error) {
	switch vv := v.(type) {
	case lua.LString:
		return string(vv), true, nil
	case lua.LNumber:
		return float64(vv), true, nil
	case lua.LBool:
		return bool(vv), true, nil
	case *lua.LTable:
		sub, err := convertTable(vv, depth+1, onPath)
		if err != nil {
			return nil, false, err
		}
		return sub, true, nil
	}
	// functions, userdata, threads, channels
	return nil, false, nil
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
