package engine

import (
	lua "github.com/Shopify/go-lua"

	"github.com/wippyai/script-runtime/marshal"
)

// toValue converts the Lua value at index into the closed dynamic set:
// nil, bool, float64 (all Lua numbers), string, []any for sequence tables
// and map[string]any for everything else.
func toValue(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeNil:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return n
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s
	case lua.TypeTable:
		return tableToValue(l, index)
	case lua.TypeUserData:
		return l.ToUserData(index)
	default:
		return nil
	}
}

func tableToValue(l *lua.State, index int) any {
	index = l.AbsIndex(index)

	isSequence := true
	maxIndex := 0
	count := 0
	l.PushNil()
	for l.Next(index) {
		if isSequence {
			if l.TypeOf(-2) != lua.TypeNumber {
				isSequence = false
			} else if i, ok := l.ToInteger(-2); ok && i > 0 {
				count++
				if i > maxIndex {
					maxIndex = i
				}
			} else {
				isSequence = false
			}
		}
		l.Pop(1)
	}

	if isSequence && count > 0 && maxIndex == count {
		out := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			l.RawGetInt(index, i)
			out = append(out, toValue(l, -1))
			l.Pop(1)
		}
		return out
	}

	out := map[string]any{}
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			out[key] = toValue(l, -1)
		}
		l.Pop(1)
	}
	return out
}

// pushValue pushes a dynamic Go value onto the Lua stack. Vectors become
// tables with x, y, z fields; unsupported types push nil rather than panic.
func pushValue(l *lua.State, v any) {
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case int:
		l.PushInteger(val)
	case int32:
		l.PushInteger(int(val))
	case int64:
		l.PushInteger(int(val))
	case uint:
		l.PushNumber(float64(val))
	case uint32:
		l.PushNumber(float64(val))
	case uint64:
		l.PushNumber(float64(val))
	case float32:
		l.PushNumber(float64(val))
	case float64:
		l.PushNumber(val)
	case string:
		l.PushString(val)
	case marshal.Vec3:
		l.NewTable()
		l.PushNumber(float64(val.X))
		l.SetField(-2, "x")
		l.PushNumber(float64(val.Y))
		l.SetField(-2, "y")
		l.PushNumber(float64(val.Z))
		l.SetField(-2, "z")
	case []any:
		l.NewTable()
		for i, item := range val {
			pushValue(l, item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.NewTable()
		for key, item := range val {
			pushValue(l, item)
			l.SetField(-2, key)
		}
	default:
		l.PushNil()
	}
}
