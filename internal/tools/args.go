package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soochol/viscribe/internal/apperrors"
)

// Parameter types understood by the input normalizer.
const (
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	// TypeJSON is advertised as a string holding JSON. Callers may also
	// pass the already decoded value; the operation parses it.
	TypeJSON = "json"
)

// Param describes one non-image input field.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
}

// Args is a normalized tool input. Values of declared params have the Go
// type matching their Param.Type.
type Args map[string]any

func (a Args) str(key string) string {
	s, _ := a[key].(string)
	return s
}

func (a Args) boolean(key string, def bool) bool {
	if b, ok := a[key].(bool); ok {
		return b
	}
	return def
}

func (a Args) integer(key string) (int, bool) {
	n, ok := a[key].(int)
	return n, ok
}

func (a Args) has(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// toArgs accepts the input shapes host frameworks hand us: a decoded
// object, raw JSON bytes or a JSON string.
func toArgs(input any) (map[string]any, error) {
	switch v := input.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case Args:
		return v, nil
	case json.RawMessage:
		return decodeObject(v)
	case []byte:
		return decodeObject(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}, nil
		}
		return decodeObject([]byte(v))
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("input must be an object, got %T", input), nil)
	}
}

func decodeObject(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewValidationError("input must be a JSON object", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// normalize checks required params and coerces declared values into a
// fresh Args. The caller's map is never modified.
func normalize(params []Param, raw map[string]any) (Args, error) {
	args := make(Args, len(params))
	for _, p := range params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, apperrors.NewValidationError(p.Name+" is required", nil)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}

		cv, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		if p.Required && !nonEmpty(cv) {
			return nil, apperrors.NewValidationError(p.Name+" is required", nil)
		}
		args[p.Name] = cv
	}
	return args, nil
}

func nonEmpty(v any) bool {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return v != nil
}

func coerce(p Param, v any) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, apperrors.NewValidationError(p.Name+" must be a string", nil)
		}
		return s, nil

	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed, nil
			}
		}
		return nil, apperrors.NewValidationError(p.Name+" must be a boolean", nil)

	case TypeInteger:
		if n, ok := asInt(v); ok {
			return n, nil
		}
		return nil, apperrors.NewValidationError(p.Name+" must be an integer", nil)

	case TypeJSON:
		if s, ok := v.(string); ok {
			if strings.TrimSpace(s) == "" {
				return s, nil
			}
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err != nil {
				return nil, apperrors.NewValidationError(p.Name+" is not valid JSON", err)
			}
			return decoded, nil
		}
		// Round-trip typed values ([]string, structs) into the generic
		// shape the operations parse.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, apperrors.NewValidationError(p.Name+" is not valid JSON", err)
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, apperrors.NewValidationError(p.Name+" is not valid JSON", err)
		}
		return decoded, nil
	}
	return v, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
