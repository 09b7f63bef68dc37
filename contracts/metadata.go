package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

type MetadataKind int

const (
	KindString MetadataKind = iota
	KindNumber
	KindInteger
	KindBoolean
)

// MetadataValue holds one of text, float, integer or boolean. It is
// serialized as the bare value, without a type tag.
type MetadataValue struct {
	kind MetadataKind
	str  string
	num  float64
	i    int64
	b    bool
}

type MetadataMap map[string]MetadataValue

func String(s string) MetadataValue  { return MetadataValue{kind: KindString, str: s} }
func Number(f float64) MetadataValue { return MetadataValue{kind: KindNumber, num: f} }
func Integer(i int64) MetadataValue  { return MetadataValue{kind: KindInteger, i: i} }
func Boolean(b bool) MetadataValue   { return MetadataValue{kind: KindBoolean, b: b} }

func (v MetadataValue) Kind() MetadataKind { return v.kind }

func (v MetadataValue) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v MetadataValue) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v MetadataValue) AsInteger() (int64, bool) {
	return v.i, v.kind == KindInteger
}

func (v MetadataValue) AsBoolean() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Float returns numeric values as float64 regardless of their kind.
func (v MetadataValue) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindInteger:
		return float64(v.i), true
	}
	return 0, false
}

func (v MetadataValue) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v MetadataValue) bare() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindInteger:
		return v.i
	case KindBoolean:
		return v.b
	default:
		return v.str
	}
}

// MarshalJSON writes non-finite numbers as null since JSON has no literal
// for them.
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v.bare())
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Number(math.NaN())
	case string:
		*v = String(x)
	case bool:
		*v = Boolean(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			*v = Integer(i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("metadata value %s: %w", x, err)
		}
		*v = Number(f)
	default:
		return fmt.Errorf("unsupported metadata value %s", string(data))
	}
	return nil
}

func (v MetadataValue) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(v.bare())
}

func (v *MetadataValue) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = String(x)
	case bool:
		*v = Boolean(x)
	case uint64:
		if x > math.MaxInt64 {
			*v = Number(float64(x))
			return nil
		}
		*v = Integer(int64(x))
	case int64:
		*v = Integer(x)
	case float64:
		*v = Number(x)
	default:
		return fmt.Errorf("unsupported metadata value of type %T", raw)
	}
	return nil
}
