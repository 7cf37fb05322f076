package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// pyRepr renders a decoded JSON value the way Python's repr() shows the
// equivalent object, which is what validator messages embed:
//
//	32 -> 32, "a" -> 'a', true -> True, null -> None, [1,"a"] -> [1, 'a']
//
// Object keys are sorted since decoding into a map loses their order.
func pyRepr(v any) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case bool:
		if value {
			return "True"
		}
		return "False"
	case json.Number:
		return value.String()
	case float64:
		return fmt.Sprint(value)
	case string:
		return pyQuote(value)
	case []any:
		items := make([]string, len(value))
		for i, item := range value {
			items[i] = pyRepr(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = pyQuote(k) + ": " + pyRepr(value[k])
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return fmt.Sprint(value)
	}
}

// pyQuote single-quotes s unless it contains a single quote and no
// double quote.
func pyQuote(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)

	return b.String()
}
