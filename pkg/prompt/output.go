package prompt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/values"
)

// Serialize encodes payload in format. Dates are written as RFC 3339.
func Serialize(payload map[string]any, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		flattened := url.Values{}
		walkLeaves("", payload, func(path string, v any) {
			flattened.Set(path, leafString(v))
		})
		return []byte(flattened.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		walkLeaves("", payload, func(path string, v any) {
			fmt.Fprintf(&b, "%s=%s\n", path, leafString(v))
		})
		return []byte(b.String()), nil
	default:
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("prompt: encode payload: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// walkLeaves visits leaves in key order, addressing list items by index.
func walkLeaves(prefix string, value any, visit func(path string, v any)) {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			walkLeaves(values.Join(prefix, key), typed[key], visit)
		}
	case []any:
		for idx, item := range typed {
			walkLeaves(values.Index(prefix, idx), item, visit)
		}
	default:
		if prefix != "" {
			visit(prefix, typed)
		}
	}
}

func leafString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case time.Time:
		return typed.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}
