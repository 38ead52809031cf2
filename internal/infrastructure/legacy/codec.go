package legacy

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Record is a single object-store record with snake_case field names,
// as the legacy API returns them.
type Record map[string]any

// listEnvelope is the legacy list response shape
type listEnvelope struct {
	Items   []Record `json:"items"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
	HasMore bool     `json:"has_more"`
}

// Page is a decoded page of records
type Page struct {
	Items   []Record
	Offset  int
	Limit   int
	HasMore bool
}

// DecodeRecord converts a snake_case record to camelCase keys, recursing
// into nested objects and arrays.
func DecodeRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[snakeToCamel(k)] = decodeValue(v)
	}
	return out
}

// EncodeRecord converts a camelCase record to snake_case keys for the
// wire, recursing into nested objects and arrays.
func EncodeRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[camelToSnake(k)] = encodeValue(v)
	}
	return out
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(DecodeRecord(t))
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = decodeValue(item)
		}
		return items
	default:
		return v
	}
}

func encodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(EncodeRecord(t))
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = encodeValue(item)
		}
		return items
	default:
		return v
	}
}

// snakeToCamel converts snake_case to camelCase. Leading and trailing
// underscores are preserved.
func snakeToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for i, r := range s {
		if r == '_' && i > 0 && i < len(s)-1 {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// camelToSnake converts camelCase to snake_case
func camelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func decodePage(data []byte) (*Page, error) {
	var env listEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	items := make([]Record, len(env.Items))
	for i, r := range env.Items {
		items[i] = DecodeRecord(r)
	}
	return &Page{
		Items:   items,
		Offset:  env.Offset,
		Limit:   env.Limit,
		HasMore: env.HasMore,
	}, nil
}
