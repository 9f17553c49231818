package automation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EqualityMode string

const (
	// EqualityStrict compares typed: a number condition only equals a numeric field
	EqualityStrict EqualityMode = "strict"
	// EqualityLoose compares both sides after formatting them as strings
	EqualityLoose EqualityMode = "loose"
)

func ParseEqualityMode(s string) EqualityMode {
	if EqualityMode(strings.ToLower(s)) == EqualityLoose {
		return EqualityLoose
	}
	return EqualityStrict
}

type ConditionEvaluator struct {
	mode EqualityMode
}

func NewConditionEvaluator(mode EqualityMode) *ConditionEvaluator {
	return &ConditionEvaluator{mode: mode}
}

// Matches ANDs the conditions, stopping at the first false one. No conditions always match.
func (e *ConditionEvaluator) Matches(conditions []Condition, event Event) bool {
	for _, cond := range conditions {
		if !e.Evaluate(cond, event) {
			return false
		}
	}
	return true
}

// Evaluate never fails: unknown operators and type mismatches evaluate to false.
func (e *ConditionEvaluator) Evaluate(cond Condition, event Event) bool {
	actual, found := event.Lookup(cond.Field)

	switch cond.Operator {
	case OperatorEquals:
		return found && actual != nil && e.equal(actual, cond.Value)
	case OperatorNotEquals:
		return !found || actual == nil || !e.equal(actual, cond.Value)
	case OperatorContains:
		return found && e.contains(actual, cond.Value)
	case OperatorGreaterThan:
		return found && compareNumbers(actual, cond.Value, func(a, b float64) bool { return a > b })
	case OperatorLessThan:
		return found && compareNumbers(actual, cond.Value, func(a, b float64) bool { return a < b })
	case OperatorIsSet:
		return isSet(actual, found)
	case OperatorIsNotSet:
		return !isSet(actual, found)
	default:
		return false
	}
}

func (e *ConditionEvaluator) equal(actual interface{}, expected Value) bool {
	if e.mode == EqualityLoose {
		return formatValue(actual) == expected.String()
	}

	switch expected.Kind() {
	case KindString:
		s, ok := actual.(string)
		return ok && s == expected.Str()
	case KindNumber:
		if _, isString := actual.(string); isString {
			return false
		}
		f, ok := toFloat(actual)
		return ok && f == expected.Number()
	case KindBool:
		b, ok := actual.(bool)
		return ok && b == expected.Bool()
	}
	return false
}

func (e *ConditionEvaluator) contains(actual interface{}, expected Value) bool {
	if expected.IsZero() {
		return false
	}

	if s, ok := actual.(string); ok {
		if expected.Kind() != KindString && e.mode != EqualityLoose {
			return false
		}
		return strings.Contains(s, expected.String())
	}

	rv := reflect.ValueOf(actual)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if item != nil && e.equal(item, expected) {
			return true
		}
	}
	return false
}

func compareNumbers(actual interface{}, expected Value, cmp func(a, b float64) bool) bool {
	a, ok := toFloat(actual)
	if !ok {
		return false
	}

	var b float64
	switch expected.Kind() {
	case KindNumber:
		b = expected.Number()
	case KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(expected.Str()), 64)
		if err != nil {
			return false
		}
		b = parsed
	default:
		return false
	}
	return cmp(a, b)
}

func isSet(actual interface{}, found bool) bool {
	if !found || actual == nil {
		return false
	}
	if s, ok := actual.(string); ok {
		return s != ""
	}
	return true
}

// toFloat accepts Go numerics, json.Number and numeric strings.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Value:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	case primitive.ObjectID:
		return x.Hex()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}
