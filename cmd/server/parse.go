package main

import (
	"encoding/json"
	"fmt"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

// parseOptionValues converts plain JSON option values into typed values
// using the processing's option definitions:
//
//	{"opt_sink_mount": "undermount", "opt_dividers": 2, "opt_full_extension": true}
func parseOptionValues(proc catalog.Processing, raw map[string]json.RawMessage) (catalog.OptionValues, error) {
	values := make(catalog.OptionValues, len(raw))
	for id, msg := range raw {
		opt, ok := proc.Option(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no option %q", errBadRequest, proc.ID, id)
		}
		v, err := parseOptionValue(opt, msg)
		if err != nil {
			return nil, fmt.Errorf("%w: option %s: %v", errBadRequest, id, err)
		}
		if !opt.Accepts(v) {
			return nil, fmt.Errorf("%w: option %s: value not allowed", errBadRequest, id)
		}
		values[id] = v
	}
	return values, nil
}

func parseOptionValue(opt catalog.ProcessingOption, msg json.RawMessage) (catalog.OptionValue, error) {
	switch opt.Type {
	case catalog.OptionSelect, catalog.OptionColor, catalog.OptionText:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("expected a string")
		}
		switch opt.Type {
		case catalog.OptionSelect:
			return catalog.SelectValue{Choice: s}, nil
		case catalog.OptionColor:
			return catalog.ColorValue{Choice: s}, nil
		}
		return catalog.TextValue{Text: s}, nil
	case catalog.OptionNumber:
		var n float64
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return catalog.NumberValue{Value: n}, nil
	case catalog.OptionBoolean:
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return catalog.BooleanValue{Enabled: b}, nil
	case catalog.OptionDimensions:
		var d catalog.Dimensions
		if err := json.Unmarshal(msg, &d); err != nil {
			return nil, fmt.Errorf("expected {width, height, depth}")
		}
		return catalog.DimensionsValue{Width: d.Width, Height: d.Height, Depth: d.Depth}, nil
	}
	return nil, fmt.Errorf("unsupported option type %q", opt.Type)
}
