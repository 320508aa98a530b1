// Package cronexpr parses and evaluates 5-field cron schedule expressions.
package cronexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrFieldCount   = errors.New("cron expression must have 5 fields")
	ErrInvalidField = errors.New("invalid cron field")
)

// maxScan bounds Next's forward search to one non-leap year of minutes. An
// unsatisfiable expression returns the last scanned instant instead of an
// error; callers that care must check Matches on the result.
const maxScan = 525960

type tokenKind int

const (
	tokenAny tokenKind = iota
	tokenValue
	tokenRange
	tokenStep
)

type token struct {
	kind tokenKind
	// value for tokenValue; low for tokenRange; base for tokenStep.
	a int
	// high for tokenRange; step for tokenStep.
	b int
}

type field []token

// Expression is an immutable, parsed cron schedule. Fields are, in order:
// minute (0-59), hour (0-23), day-of-month (1-31), month (1-12) and
// weekday (0-6, Monday is 0).
type Expression struct {
	source string
	fields [5]field
}

// Parse validates and compiles a cron expression. Each field is "*", or a
// comma-separated list of values, "a-b" ranges and "*/n" or "a/n" steps.
func Parse(expr string) (*Expression, error) {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: %q has %d", ErrFieldCount, expr, len(parts))
	}

	parsed := &Expression{source: strings.TrimSpace(expr)}

	for i, part := range parts {
		f, err := parseField(part)
		if err != nil {
			return nil, fmt.Errorf("field %d %q: %w", i+1, part, err)
		}

		parsed.fields[i] = f
	}

	return parsed, nil
}

func parseField(part string) (field, error) {
	if part == "*" {
		return field{{kind: tokenAny}}, nil
	}

	items := strings.Split(part, ",")
	tokens := make(field, 0, len(items))

	for _, item := range items {
		tok, err := parseToken(item)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

func parseToken(item string) (token, error) {
	switch {
	case item == "*":
		return token{kind: tokenAny}, nil
	case strings.Contains(item, "/"):
		base, step, ok := strings.Cut(item, "/")
		if !ok {
			return token{}, ErrInvalidField
		}

		baseVal := 0

		if base != "*" {
			v, err := strconv.Atoi(base)
			if err != nil {
				return token{}, fmt.Errorf("%w: %q", ErrInvalidField, item)
			}

			baseVal = v
		}

		stepVal, err := strconv.Atoi(step)
		if err != nil || stepVal <= 0 {
			return token{}, fmt.Errorf("%w: %q", ErrInvalidField, item)
		}

		return token{kind: tokenStep, a: baseVal, b: stepVal}, nil
	case strings.Contains(item, "-"):
		low, high, _ := strings.Cut(item, "-")

		lowVal, err := strconv.Atoi(low)
		if err != nil {
			return token{}, fmt.Errorf("%w: %q", ErrInvalidField, item)
		}

		highVal, err := strconv.Atoi(high)
		if err != nil {
			return token{}, fmt.Errorf("%w: %q", ErrInvalidField, item)
		}

		return token{kind: tokenRange, a: lowVal, b: highVal}, nil
	default:
		v, err := strconv.Atoi(item)
		if err != nil {
			return token{}, fmt.Errorf("%w: %q", ErrInvalidField, item)
		}

		return token{kind: tokenValue, a: v}, nil
	}
}

// String returns the original expression text.
func (e *Expression) String() string {
	return e.source
}

// Matches reports whether every field matches the corresponding component
// of t. Seconds are ignored; the expression resolution is one minute.
func (e *Expression) Matches(t time.Time) bool {
	return e.fields[0].matches(t.Minute()) &&
		e.fields[1].matches(t.Hour()) &&
		e.fields[2].matches(t.Day()) &&
		e.fields[3].matches(int(t.Month())) &&
		e.fields[4].matches(weekday(t))
}

// weekday maps to the weekday field numbering: Monday is 0, Sunday is 6.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func (f field) matches(v int) bool {
	for _, tok := range f {
		switch tok.kind {
		case tokenAny:
			return true
		case tokenStep:
			if v >= tok.a && (v-tok.a)%tok.b == 0 {
				return true
			}
		case tokenRange:
			if tok.a <= v && v <= tok.b {
				return true
			}
		case tokenValue:
			if tok.a == v {
				return true
			}
		}
	}

	return false
}

// Next returns the first matching instant strictly after from, truncated to
// the minute. The scan gives up after maxScan minutes and returns the last
// instant examined even though it does not match.
func (e *Expression) Next(from time.Time) time.Time {
	t := from.Truncate(time.Minute).Add(time.Minute)

	for range maxScan {
		if e.Matches(t) {
			return t
		}

		t = t.Add(time.Minute)
	}

	return t
}

// NextN predicts the next n firing instants after from.
func (e *Expression) NextN(from time.Time, n int) []time.Time {
	runs := make([]time.Time, 0, n)
	t := from

	for range n {
		t = e.Next(t)
		runs = append(runs, t)
		t = t.Add(time.Minute)
	}

	return runs
}
