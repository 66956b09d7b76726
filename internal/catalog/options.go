package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// OptionKind is the input type of a processing option.
type OptionKind string

const (
	OptionSelect     OptionKind = "select"
	OptionNumber     OptionKind = "number"
	OptionText       OptionKind = "text"
	OptionBoolean    OptionKind = "boolean"
	OptionColor      OptionKind = "color"
	OptionDimensions OptionKind = "dimensions"
)

type OptionChoice struct {
	Value         string          `json:"value"`
	Label         string          `json:"label"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// ProcessingOption is a configurable sub-choice of a processing.
// PriceModifier applies to boolean options when enabled and to number
// options per unit of the entered value.
type ProcessingOption struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          OptionKind      `json:"type"`
	Required      bool            `json:"required"`
	Choices       []OptionChoice  `json:"choices,omitempty"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	DefaultValue  OptionValue     `json:"-"`
}

func (o ProcessingOption) choice(value string) (OptionChoice, bool) {
	for _, c := range o.Choices {
		if c.Value == value {
			return c, true
		}
	}
	return OptionChoice{}, false
}

// Accepts reports whether v is a usable value for o.
func (o ProcessingOption) Accepts(v OptionValue) bool {
	if v == nil || v.Kind() != o.Type {
		return false
	}
	switch val := v.(type) {
	case SelectValue:
		_, ok := o.choice(val.Choice)
		return ok
	case ColorValue:
		if len(o.Choices) == 0 {
			return val.Choice != ""
		}
		_, ok := o.choice(val.Choice)
		return ok
	case TextValue:
		return val.Text != ""
	case NumberValue, BooleanValue, DimensionsValue:
		return true
	}
	return false
}

// Modifier returns the flat price adjustment v contributes for one unit.
func (o ProcessingOption) Modifier(v OptionValue) decimal.Decimal {
	if !o.Accepts(v) {
		return decimal.Zero
	}
	switch val := v.(type) {
	case SelectValue:
		c, _ := o.choice(val.Choice)
		return c.PriceModifier
	case ColorValue:
		c, ok := o.choice(val.Choice)
		if !ok {
			return decimal.Zero
		}
		return c.PriceModifier
	case NumberValue:
		return o.PriceModifier.Mul(decimal.NewFromFloat(val.Value))
	case BooleanValue:
		if val.Enabled {
			return o.PriceModifier
		}
		return decimal.Zero
	case TextValue, DimensionsValue:
		return decimal.Zero
	}
	return decimal.Zero
}

type optionJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          OptionKind      `json:"type"`
	Required      bool            `json:"required"`
	Choices       []OptionChoice  `json:"choices,omitempty"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	DefaultValue  json.RawMessage `json:"defaultValue,omitempty"`
}

func (o ProcessingOption) MarshalJSON() ([]byte, error) {
	out := optionJSON{
		ID:            o.ID,
		Name:          o.Name,
		Type:          o.Type,
		Required:      o.Required,
		Choices:       o.Choices,
		PriceModifier: o.PriceModifier,
	}
	if o.DefaultValue != nil {
		raw, err := marshalOptionValue(o.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("encode default of option %s: %w", o.ID, err)
		}
		out.DefaultValue = raw
	}
	return json.Marshal(out)
}

func (o *ProcessingOption) UnmarshalJSON(data []byte) error {
	var in optionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*o = ProcessingOption{
		ID:            in.ID,
		Name:          in.Name,
		Type:          in.Type,
		Required:      in.Required,
		Choices:       in.Choices,
		PriceModifier: in.PriceModifier,
	}
	if len(in.DefaultValue) > 0 && string(in.DefaultValue) != "null" {
		v, err := unmarshalOptionValue(in.DefaultValue)
		if err != nil {
			return fmt.Errorf("decode default of option %s: %w", in.ID, err)
		}
		o.DefaultValue = v
	}
	return nil
}

// OptionValue is a chosen value for a processing option. The concrete type
// always matches one OptionKind.
type OptionValue interface {
	Kind() OptionKind
	isOptionValue()
}

type SelectValue struct {
	Choice string `json:"choice"`
}

type NumberValue struct {
	Value float64 `json:"value"`
}

type TextValue struct {
	Text string `json:"text"`
}

type BooleanValue struct {
	Enabled bool `json:"enabled"`
}

type ColorValue struct {
	Choice string `json:"choice"`
}

type DimensionsValue struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

func (SelectValue) Kind() OptionKind     { return OptionSelect }
func (NumberValue) Kind() OptionKind     { return OptionNumber }
func (TextValue) Kind() OptionKind       { return OptionText }
func (BooleanValue) Kind() OptionKind    { return OptionBoolean }
func (ColorValue) Kind() OptionKind      { return OptionColor }
func (DimensionsValue) Kind() OptionKind { return OptionDimensions }

func (SelectValue) isOptionValue()     {}
func (NumberValue) isOptionValue()     {}
func (TextValue) isOptionValue()       {}
func (BooleanValue) isOptionValue()    {}
func (ColorValue) isOptionValue()      {}
func (DimensionsValue) isOptionValue() {}

// OptionValues maps ProcessingOption ids to chosen values.
type OptionValues map[string]OptionValue

// Clone returns an independent copy. Values are immutable structs, so a
// shallow map copy is enough.
func (v OptionValues) Clone() OptionValues {
	if v == nil {
		return nil
	}
	out := make(OptionValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

type optionValueEnvelope struct {
	Kind  OptionKind      `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func marshalOptionValue(v OptionValue) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(optionValueEnvelope{Kind: v.Kind(), Value: body})
}

func unmarshalOptionValue(data []byte) (OptionValue, error) {
	var env optionValueEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var (
		v   OptionValue
		err error
	)
	switch env.Kind {
	case OptionSelect:
		var s SelectValue
		err = json.Unmarshal(env.Value, &s)
		v = s
	case OptionNumber:
		var n NumberValue
		err = json.Unmarshal(env.Value, &n)
		v = n
	case OptionText:
		var t TextValue
		err = json.Unmarshal(env.Value, &t)
		v = t
	case OptionBoolean:
		var b BooleanValue
		err = json.Unmarshal(env.Value, &b)
		v = b
	case OptionColor:
		var c ColorValue
		err = json.Unmarshal(env.Value, &c)
		v = c
	case OptionDimensions:
		var d DimensionsValue
		err = json.Unmarshal(env.Value, &d)
		v = d
	default:
		return nil, fmt.Errorf("unknown option kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s option value: %w", env.Kind, err)
	}
	return v, nil
}

func (v OptionValues) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	out := make(map[string]json.RawMessage, len(v))
	for id, val := range v {
		if val == nil {
			continue
		}
		raw, err := marshalOptionValue(val)
		if err != nil {
			return nil, fmt.Errorf("encode option %s: %w", id, err)
		}
		out[id] = raw
	}
	return json.Marshal(out)
}

func (v *OptionValues) UnmarshalJSON(data []byte) error {
	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in == nil {
		*v = nil
		return nil
	}
	out := make(OptionValues, len(in))
	for id, raw := range in {
		val, err := unmarshalOptionValue(raw)
		if err != nil {
			return fmt.Errorf("decode option %s: %w", id, err)
		}
		out[id] = val
	}
	*v = out
	return nil
}
