package payload

import (
	"fmt"
	"strconv"
	"strings"

	"support-bridge/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Fields is the canonical flat view of an inbound request after alias
// resolution and contamination recovery. Built fresh per request.
type Fields map[string]any

// Normalize extracts a request payload from the JSON body, falling back to
// form values and then the query string when the body is empty, and runs the
// recovery rules over the result. It never fails; the worst outcome is an
// empty Fields.
func Normalize(c *fiber.Ctx) Fields {
	raw := map[string]any{}
	if err := c.BodyParser(&raw); err != nil || len(raw) == 0 {
		raw = map[string]any{}
		args := c.Request().PostArgs()
		if args.Len() == 0 {
			args = c.Request().URI().QueryArgs()
		}
		args.VisitAll(func(key, value []byte) {
			raw[string(key)] = string(value)
		})
	}
	return NormalizeMap(raw)
}

// NormalizeMap runs the ordered recovery rules over an already-decoded
// payload. The input map is not mutated.
func NormalizeMap(raw map[string]any) Fields {
	f := Fields{}
	for k, v := range raw {
		f[k] = v
	}

	for _, r := range rules {
		if r.apply(f) {
			logger.Get().Debug("Payload rule applied", zap.String("rule", r.name))
		}
	}
	return f
}

// rule is one named, independently-testable recovery step. Rules run in
// declaration order and must never fail; apply reports whether it changed
// anything.
type rule struct {
	name  string
	apply func(f Fields) bool
}

// Rule order matters: the wrapped payload is unwrapped before aliases
// resolve, and fragment lists collapse to strings before the stuffed-JSON
// rescue looks for key boundaries inside string values.
var rules = []rule{
	{"merge_tool_payload", mergeToolPayload},
	{"flatten_fragments", flattenFragments},
	{"rescue_stuffed_json", rescueStuffedJSON},
	{"resolve_aliases", resolveAliases},
}

// mergeToolPayload merges a nested tool_payload mapping over the top level.
// The upstream agent sometimes double-wraps structured tool-call arguments;
// nested values win on conflict.
func mergeToolPayload(f Fields) bool {
	nested, ok := f["tool_payload"].(map[string]any)
	if !ok {
		return false
	}
	for k, v := range nested {
		f[k] = v
	}
	delete(f, "tool_payload")
	return true
}

// aliasPriority maps each canonical key to its historically-used names, in
// priority order. The first alias present wins.
var aliasPriority = map[string][]string{
	"issue":          {"issue", "issue_summary", "summary", "problem", "message"},
	"query_text":     {"query_text", "query_term", "query", "search"},
	"limit":          {"limit", "max_results"},
	"customer_email": {"customer_email", "email"},
	"order_number":   {"order_number", "order_id", "order"},
}

// resolveAliases fills each canonical key from the first present alias.
// Source keys are left in place; endpoints that use one of the alias names
// as a real field (e.g. add-ticket-info's message) still see it.
func resolveAliases(f Fields) bool {
	changed := false
	for canonical, names := range aliasPriority {
		if v, ok := f[canonical]; ok && !isEmptyValue(v) {
			continue
		}
		for _, name := range names {
			if v, ok := f[name]; ok && !isEmptyValue(v) {
				f[canonical] = v
				changed = true
				break
			}
		}
	}
	return changed
}

// flattenFragments collapses values that arrived as lists of role-tagged
// content fragments ([{type, text}, ...]) into plain strings. Lists of bare
// strings are joined the same way. Applies one level into nested maps so a
// contaminated filters block is covered too.
func flattenFragments(f Fields) bool {
	changed := false
	for k, v := range f {
		switch val := v.(type) {
		case []any:
			if s, ok := joinFragments(val); ok {
				f[k] = s
				changed = true
			}
		case map[string]any:
			for nk, nv := range val {
				if list, ok := nv.([]any); ok {
					if s, ok := joinFragments(list); ok {
						val[nk] = s
						changed = true
					}
				}
			}
		}
	}
	return changed
}

func joinFragments(list []any) (string, bool) {
	parts := make([]string, 0, len(list))
	for _, item := range list {
		switch frag := item.(type) {
		case string:
			parts = append(parts, frag)
		case map[string]any:
			if text, ok := frag["text"].(string); ok {
				parts = append(parts, text)
			} else {
				return "", false
			}
		default:
			return "", false
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

// rescueStuffedJSON recovers string values contaminated by improperly
// escaped nested JSON, e.g.
//
//	"issue": "My issue is bad\", \"order_number\": \"#1002"
//
// The value is split at the first key-boundary pattern; the head stays in
// the original field and the tail is assigned to the implied key when that
// key is otherwise absent. Values with no recognizable boundary are left
// untouched.
func rescueStuffedJSON(f Fields) bool {
	changed := false
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	for _, k := range keys {
		s, ok := f[k].(string)
		if !ok {
			continue
		}
		head, impliedKey, tail, ok := splitStuffed(s)
		if !ok {
			continue
		}
		f[k] = head
		if _, exists := f[impliedKey]; !exists {
			f[impliedKey] = tail
		}
		changed = true
	}
	return changed
}

// splitStuffed finds the first `", "key": "` (or single-quoted) boundary.
func splitStuffed(s string) (head, key, tail string, ok bool) {
	for _, q := range []string{`"`, `'`} {
		boundary := q + ", " + q
		idx := strings.Index(s, boundary)
		if idx < 0 {
			continue
		}
		head = s[:idx]
		rest := s[idx+len(boundary):]

		sep := q + ": " + q
		sepIdx := strings.Index(rest, sep)
		if sepIdx < 0 {
			continue
		}
		key = rest[:sepIdx]
		if !isIdentifier(key) {
			continue
		}
		tail = strings.TrimSuffix(rest[sepIdx+len(sep):], q)
		return head, key, tail, true
	}
	return "", "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isEmptyValue(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// String returns the value under key as a trimmed string. Numeric values are
// stringified; anything else yields "".
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the value under key as an int, or def when missing or
// non-numeric.
func (f Fields) Int(key string, def int) int {
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the value under key as a bool; string forms are tolerated.
func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// Float returns the value under key as a float64 when it parses.
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Map returns a nested mapping under key as Fields, or an empty Fields.
func (f Fields) Map(key string) Fields {
	if m, ok := f[key].(map[string]any); ok {
		return Fields(m)
	}
	if m, ok := f[key].(Fields); ok {
		return m
	}
	return Fields{}
}

// Has reports whether key holds a non-empty value.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && !isEmptyValue(v)
}

// MissingFields returns the subset of required keys absent from f, formatted
// for a validation message.
func MissingFields(f Fields, required ...string) string {
	var missing []string
	for _, key := range required {
		if !f.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
}
