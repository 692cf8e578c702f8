// Package marshal converts dynamically-typed script values into native Go
// types with a fixed probing order and no panic across the boundary.
//
// Values crossing the boundary belong to a closed set of Go representations:
// float64, float32, int, int32, int64, uint, uint32, uint64, string, bool,
// nil, []any and map[string]any. The Lua engine emits all numbers as float64,
// so every numeric conversion probes float64 first, then the narrower
// representations a host collaborator may have produced, before failing with
// a type-conversion error naming the expected type.
//
// Numeric narrowing truncates toward zero (C-style conversion semantics):
// ToInt(3.9) == 3, never 4. This is a deliberate policy, not an accident of
// implementation.
package marshal

import (
	"github.com/wippyai/script-runtime/errors"
)

// Vec3 is a 3-component vector assembled from consecutive numeric arguments.
type Vec3 struct {
	X, Y, Z float32
}

// TypeTag names a parameter or return type in the method catalog.
type TypeTag string

const (
	TypeFloat  TypeTag = "float"
	TypeInt    TypeTag = "int"
	TypeString TypeTag = "string"
	TypeBool   TypeTag = "bool"
	TypeNumber TypeTag = "number"
	TypeObject TypeTag = "object"
	TypeVoid   TypeTag = "void"
)

// ToFloat32 converts a dynamic value to float32.
// Probing order: float64, float32, int, int32, int64, uint, uint32, uint64.
func ToFloat32(v any) (float32, error) {
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case float32:
		return n, nil
	case int:
		return float32(n), nil
	case int32:
		return float32(n), nil
	case int64:
		return float32(n), nil
	case uint:
		return float32(n), nil
	case uint32:
		return float32(n), nil
	case uint64:
		return float32(n), nil
	default:
		return 0, errors.TypeConversion("float", v)
	}
}

// ToFloat64 converts a dynamic value to float64 with the same probing order
// as ToFloat32.
func ToFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errors.TypeConversion("number", v)
	}
}

// ToInt converts a dynamic value to int, truncating fractional values
// toward zero. Probing order: float64, int, float32, int32, int64, uint,
// uint32, uint64.
func ToInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case float32:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, errors.TypeConversion("int", v)
	}
}

// ToString converts a dynamic value to string. Only string values convert;
// numbers are not stringified implicitly.
func ToString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", errors.TypeConversion("string", v)
	}
}

// ToBool converts a dynamic value to bool. Numeric values coerce with
// zero = false, nonzero = true.
func ToBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case float32:
		return b != 0, nil
	case int:
		return b != 0, nil
	case int32:
		return b != 0, nil
	case int64:
		return b != 0, nil
	case uint:
		return b != 0, nil
	case uint32:
		return b != 0, nil
	case uint64:
		return b != 0, nil
	default:
		return false, errors.TypeConversion("bool", v)
	}
}

// ToVec3 assembles a Vec3 from three consecutive convertible values in args
// starting at start. Fewer than three available values is an arity error.
func ToVec3(args []any, start int) (Vec3, error) {
	if start < 0 || start+3 > len(args) {
		available := len(args) - start
		if available < 0 {
			available = 0
		}
		return Vec3{}, errors.VecArity(available)
	}

	x, err := ToFloat32(args[start])
	if err != nil {
		return Vec3{}, err
	}
	y, err := ToFloat32(args[start+1])
	if err != nil {
		return Vec3{}, err
	}
	z, err := ToFloat32(args[start+2])
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: x, Y: y, Z: z}, nil
}
