package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

func processing(t *testing.T, id string) catalog.Processing {
	t.Helper()
	p, ok := catalog.Default().Processing(id)
	if !ok {
		t.Fatalf("missing processing %s", id)
	}
	return p
}

func rawOptions(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func TestParseOptionValues_Success(t *testing.T) {
	values, err := parseOptionValues(processing(t, "proc_drawer_upgrade"),
		rawOptions(t, `{"opt_full_extension": true, "opt_dividers": 2}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if values["opt_full_extension"] != (catalog.BooleanValue{Enabled: true}) {
		t.Fatalf("unexpected boolean: %+v", values["opt_full_extension"])
	}
	if values["opt_dividers"] != (catalog.NumberValue{Value: 2}) {
		t.Fatalf("unexpected number: %+v", values["opt_dividers"])
	}

	values, err = parseOptionValues(processing(t, "proc_custom_color"), rawOptions(t, `{"opt_color": "hc154"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if values["opt_color"] != (catalog.ColorValue{Choice: "hc154"}) {
		t.Fatalf("unexpected color: %+v", values["opt_color"])
	}
}

func TestParseOptionValues_Invalid(t *testing.T) {
	tests := []struct {
		name string
		proc string
		body string
	}{
		{name: "unknown option", proc: "proc_sink_cutout", body: `{"opt_glass": "clear"}`},
		{name: "unknown choice", proc: "proc_sink_cutout", body: `{"opt_sink_mount": "farmhouse"}`},
		{name: "wrong type for select", proc: "proc_sink_cutout", body: `{"opt_sink_mount": 1}`},
		{name: "string for number", proc: "proc_drawer_upgrade", body: `{"opt_dividers": "two"}`},
		{name: "negative number", proc: "proc_drawer_upgrade", body: `{"opt_dividers": -1}`},
		{name: "number for boolean", proc: "proc_drawer_upgrade", body: `{"opt_full_extension": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptionValues(processing(t, tt.proc), rawOptions(t, tt.body))
			if !errors.Is(err, errBadRequest) {
				t.Fatalf("expected bad request, got %v", err)
			}
		})
	}
}
