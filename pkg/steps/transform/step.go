// Package transform provides the transform step handler: count, sum and
// filter over a named list variable.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

type Step struct {
	Operation string
	Source    string
	Field     string
	Value     any
}

func NewStep(config map[string]any) (*Step, error) {
	operation, _ := config["operation"].(string)
	if operation == "" {
		operation = "map"
	}

	source, _ := config["source"].(string)
	field, _ := config["field"].(string)

	return &Step{
		Operation: operation,
		Source:    source,
		Field:     field,
		Value:     config["value"],
	}, nil
}

func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	data, present := variables[s.Source]
	if !present {
		// An absent source behaves as an empty list; a present scalar
		// does not.
		data = []any{}
	}

	items, isList := data.([]any)

	switch {
	case s.Operation == "count":
		count := 1
		if isList {
			count = len(items)
		}

		return map[string]any{"output": map[string]any{"count": count}}, nil
	case s.Operation == "sum" && isList:
		total := 0.0

		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}

			v, ok := toFloat(row[s.Field])
			if !ok && row[s.Field] != nil {
				return map[string]any{"error": fmt.Sprintf("non-numeric value in field %q", s.Field)}, nil
			}

			total += v
		}

		return map[string]any{"output": map[string]any{"sum": total}}, nil
	case s.Operation == "filter" && isList:
		filtered := make([]any, 0)

		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}

			if equalValues(row[s.Field], s.Value) {
				filtered = append(filtered, row)
			}
		}

		return map[string]any{"output": map[string]any{"filtered": filtered}}, nil
	default:
		return map[string]any{"output": map[string]any{}}, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

// equalValues compares numbers across concrete types and everything else
// strictly, so the string "1" never matches the number 1.
func equalValues(a, b any) bool {
	af, aok := asNumber(a)
	bf, bok := asNumber(b)

	switch {
	case aok && bok:
		return af == bf
	case aok != bok:
		return false
	default:
		return reflect.DeepEqual(a, b)
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
