package value

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// FromInterface converts the generic output of a decoder (encoding/json,
// yaml.v3, go-toml) into a Value. It is the only place format-specific
// shapes are inspected.
func FromInterface(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUnsigned(uint64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return fromUnsigned(v), nil
	case float32:
		return fromFloat(float64(v)), nil
	case float64:
		return fromFloat(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", v.String())
		}
		return Float(f), nil
	case time.Time:
		return String(v.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		// go-toml local dates and times
		return String(v.String()), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = converted
		}
		return Value{kind: KindList, list: items}, nil
	case []string:
		return Strings(v...), nil
	case map[string]any:
		m, err := MapFromInterface(v)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindMap, m: m}, nil
	case map[any]any:
		m := make(map[string]Value, len(v))
		for k, child := range v {
			key := fmt.Sprint(k)
			converted, err := FromInterface(child)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = converted
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}

// MapFromInterface converts a decoded mapping into a Map
func MapFromInterface(in map[string]any) (Map, error) {
	out := make(Map, len(in))
	for k, child := range in {
		converted, err := FromInterface(child)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = converted
	}
	return out, nil
}

// fromFloat maps infinities and NaN to null; templates cannot use them
func fromFloat(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Null()
	}
	return Float(f)
}

func fromUnsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}
