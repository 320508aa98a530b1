// Package condition provides the condition step handler: it evaluates one
// variable against a configured operand and records the verdict without
// altering control flow.
package condition

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Step evaluates variables[Field] Operator Value.
type Step struct {
	Field    string
	Operator string
	Value    any
}

func NewStep(config map[string]any) (*Step, error) {
	field, _ := config["field"].(string)

	operator, _ := config["operator"].(string)
	if operator == "" {
		operator = "=="
	}

	return &Step{
		Field:    field,
		Operator: operator,
		Value:    config["value"],
	}, nil
}

// Execute returns {condition, result, field, operator}. Coercion or
// comparison failures yield result false, never an error.
func (s *Step) Execute(ctx context.Context, variables map[string]any, logger *slog.Logger) (any, error) {
	actual := variables[s.Field]
	result := s.evaluate(actual)

	logger.Debug("condition evaluated",
		"field", s.Field,
		"operator", s.Operator,
		"result", result,
	)

	return map[string]any{
		"condition": true,
		"result":    result,
		"field":     s.Field,
		"operator":  s.Operator,
	}, nil
}

func (s *Step) evaluate(actual any) bool {
	switch s.Operator {
	case "!=":
		return !looseEqual(actual, s.Value)
	case ">", "<", ">=", "<=":
		return compareNumeric(s.Operator, actual, s.Value)
	case "contains":
		return strings.Contains(fmt.Sprint(actual), fmt.Sprint(s.Value))
	case "exists":
		return actual != nil
	default:
		// Unknown operators fall back to equality.
		return looseEqual(actual, s.Value)
	}
}

// looseEqual treats numerically equal values as equal regardless of their
// concrete type, so a JSON-decoded float64(3) equals int(3).
func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}

	return fmt.Sprint(a) == fmt.Sprint(b) && (a == nil) == (b == nil)
}

func compareNumeric(op string, a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)

	if !aok || !bok {
		return false
	}

	switch op {
	case ">":
		return af > bf
	case "<":
		return af < bf
	case ">=":
		return af >= bf
	default:
		return af <= bf
	}
}

func toFloat(v any) (float64, bool) {
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
	case string:
		f, err := strconv.ParseFloat(n, 64)

		return f, err == nil
	default:
		return 0, false
	}
}
