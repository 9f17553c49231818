package automation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type ValueKind string

const (
	KindNone   ValueKind = ""
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
)

// Value is a condition operand. Its kind is fixed when the rule is authored and
// travels as a plain scalar in JSON and BSON.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsZero() bool    { return v.kind == KindNone }

func (v Value) Str() string     { return v.str }
func (v Value) Number() float64 { return v.num }
func (v Value) Bool() bool      { return v.b }

// String is the loose textual form used for coercing comparisons and templates
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	}
	return nil
}

// ValueOf wraps a decoded scalar. Anything that is not a string, number or bool is rejected.
func ValueOf(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	}
	if f, ok := toFloat(raw); ok {
		return NumberValue(f), nil
	}
	return Value{}, fmt.Errorf("condition value must be a string, number or boolean, got %T", raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.kind == KindNone {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(v.Interface())
}

func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*v = Value{}
	case bson.TypeString:
		*v = StringValue(raw.StringValue())
	case bson.TypeBoolean:
		*v = BoolValue(raw.Boolean())
	case bson.TypeDouble:
		*v = NumberValue(raw.Double())
	case bson.TypeInt32:
		*v = NumberValue(float64(raw.Int32()))
	case bson.TypeInt64:
		*v = NumberValue(float64(raw.Int64()))
	default:
		return fmt.Errorf("unsupported condition value type %s", t)
	}
	return nil
}
