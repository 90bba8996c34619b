package logging

import (
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoHighlightKeys are shown first, in this order, on info and warn records.
var infoHighlightKeys = []string{
	FieldEventType,
	"reason",
	"error",
	FieldErrorHint,
	FieldImpact,
	"valid",
	"tracks",
	"lines",
	"score_duration",
	"tpq",
	"cache",
	"cache_size_bytes",
}

// selectInfoFields returns formatted info-level fields and a count of hidden
// entries. limit=0 means no limit.
func selectInfoFields(attrs []kv, limit int) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0
	add := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipInfoKey(attr.key) {
			return
		}
		if isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		if limit > 0 && len(result) >= limit {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				add(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			add(idx)
		}
	}
	return result, hidden
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	if strings.HasSuffix(key, "_bytes") {
		switch v.Kind() {
		case slog.KindInt64:
			if v.Int64() >= 0 {
				return humanize.Bytes(uint64(v.Int64()))
			}
		case slog.KindUint64:
			return humanize.Bytes(v.Uint64())
		}
	}
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" && len(value) > 200 {
		value = value[:200] + "…"
	}
	return value
}

// skipInfoKey reports keys already rendered in the record header.
func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldPath, FieldLine:
		return true
	}
	return false
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldRunID, FieldCommand:
		return true
	}
	return strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_hash")
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case "tpq":
		return "TPQ"
	case "cache_size_bytes":
		return "Cache Size"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}
