package rules

import (
	"errors"
	"slices"
	"testing"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

func ids(ps []catalog.Processing) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func fixture(t *testing.T) (*Engine, *catalog.Catalog) {
	t.Helper()
	c := catalog.Default()
	return New(c), c
}

func product(t *testing.T, c *catalog.Catalog, id string) catalog.Product {
	t.Helper()
	p, ok := c.Product(id)
	if !ok {
		t.Fatalf("unknown product %s", id)
	}
	return p
}

func processing(t *testing.T, c *catalog.Catalog, id string) catalog.Processing {
	t.Helper()
	p, ok := c.Processing(id)
	if !ok {
		t.Fatalf("unknown processing %s", id)
	}
	return p
}

func TestAvailable_FiltersByCategory(t *testing.T) {
	e, c := fixture(t)

	got := ids(e.Available(product(t, c, "prod_quartz_top"), nil))
	want := []string{"proc_edge_bullnose", "proc_edge_beveled", "proc_edge_ogee", "proc_sink_cutout"}
	if !slices.Equal(got, want) {
		t.Fatalf("Available(countertop) = %v, want %v", got, want)
	}
}

func TestAvailable_MutualExclusionAndRestore(t *testing.T) {
	e, c := fixture(t)
	top := product(t, c, "prod_quartz_top")

	withBullnose := ids(e.Available(top, []string{"proc_edge_bullnose"}))
	if slices.Contains(withBullnose, "proc_edge_beveled") {
		t.Fatalf("beveled should be excluded while bullnose is applied: %v", withBullnose)
	}
	if slices.Contains(withBullnose, "proc_edge_bullnose") {
		t.Fatalf("applied processing should not be offered again: %v", withBullnose)
	}

	restored := ids(e.Available(top, nil))
	if !slices.Contains(restored, "proc_edge_beveled") {
		t.Fatalf("beveled should be available after bullnose is removed: %v", restored)
	}
}

func TestAvailable_ExclusionIsOneSided(t *testing.T) {
	e, c := fixture(t)
	base := product(t, c, "prod_base_24")

	// pulls do not trigger anything; push-to-open stays available.
	got := ids(e.Available(base, []string{"proc_install_pulls"}))
	if !slices.Contains(got, "proc_push_to_open") {
		t.Fatalf("push-to-open should stay available when only pulls are applied: %v", got)
	}

	got = ids(e.Available(base, []string{"proc_push_to_open"}))
	if slices.Contains(got, "proc_install_pulls") {
		t.Fatalf("pulls should be excluded by push-to-open: %v", got)
	}
}

func TestCanApply(t *testing.T) {
	e, c := fixture(t)
	top := product(t, c, "prod_quartz_top")

	err := e.CanApply(top, []string{"proc_edge_bullnose"}, processing(t, c, "proc_edge_beveled"))
	var ex *ExclusionError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExclusionError, got %v", err)
	}
	if ex.RuleID != "rule_edge_exclusion" || ex.TriggeredBy != "proc_edge_bullnose" {
		t.Fatalf("unexpected exclusion: %+v", ex)
	}

	if err := e.CanApply(top, nil, processing(t, c, "proc_stain_dark")); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
	if err := e.CanApply(top, []string{"proc_edge_ogee"}, processing(t, c, "proc_edge_ogee")); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if err := e.CanApply(top, nil, processing(t, c, "proc_edge_beveled")); err != nil {
		t.Fatalf("expected beveled to be applicable, got %v", err)
	}
}

func TestRequirements_AutoAddsResolvable(t *testing.T) {
	e, c := fixture(t)
	base := product(t, c, "prod_base_24")

	auto, err := e.Requirements(base, nil, processing(t, c, "proc_push_to_open"))
	if err != nil {
		t.Fatalf("Requirements returned error: %v", err)
	}
	if got := ids(auto); !slices.Equal(got, []string{"proc_softclose_hinges"}) {
		t.Fatalf("auto-added = %v, want soft-close hinges", got)
	}

	auto, err = e.Requirements(base, []string{"proc_softclose_hinges"}, processing(t, c, "proc_push_to_open"))
	if err != nil || len(auto) != 0 {
		t.Fatalf("expected nothing to add when requirement is met, got %v, %v", auto, err)
	}
}

func TestRequirements_BlocksWhenRequirementNeedsOptions(t *testing.T) {
	e, c := fixture(t)
	base := product(t, c, "prod_base_24")

	_, err := e.Requirements(base, nil, processing(t, c, "proc_glaze"))
	var req *RequirementError
	if !errors.As(err, &req) {
		t.Fatalf("expected RequirementError, got %v", err)
	}
	if !slices.Equal(req.Missing, []string{"proc_custom_color"}) {
		t.Fatalf("missing = %v", req.Missing)
	}
}

func TestRequirements_BlocksWhenRequirementExcluded(t *testing.T) {
	e, c := fixture(t)
	base := product(t, c, "prod_base_24")

	// custom color is excluded while stain is applied.
	_, err := e.Requirements(base, []string{"proc_stain_dark"}, processing(t, c, "proc_glaze"))
	var req *RequirementError
	if !errors.As(err, &req) {
		t.Fatalf("expected RequirementError, got %v", err)
	}
}

func TestCanRemove(t *testing.T) {
	e, _ := fixture(t)

	err := e.CanRemove([]string{"proc_push_to_open"}, "proc_softclose_hinges")
	var req *RequirementError
	if !errors.As(err, &req) {
		t.Fatalf("expected RequirementError, got %v", err)
	}
	if req.ProcessingID != "proc_push_to_open" || req.RuleID != "rule_push_requires_softclose" {
		t.Fatalf("unexpected requirement error %+v", req)
	}

	if err := e.CanRemove(nil, "proc_softclose_hinges"); err != nil {
		t.Fatalf("nothing depends on soft-close, got %v", err)
	}
	// still supplied by another source, e.g. the room.
	if err := e.CanRemove([]string{"proc_push_to_open", "proc_softclose_hinges"}, "proc_softclose_hinges"); err != nil {
		t.Fatalf("requirement still met, got %v", err)
	}
}

func TestRoomRequirements(t *testing.T) {
	e, c := fixture(t)

	auto, err := e.RoomRequirements(nil, processing(t, c, "proc_push_to_open"))
	if err != nil {
		t.Fatalf("RoomRequirements returned error: %v", err)
	}
	if got := ids(auto); !slices.Equal(got, []string{"proc_softclose_hinges"}) {
		t.Fatalf("co-activated = %v, want soft-close hinges", got)
	}

	auto, err = e.RoomRequirements([]string{"proc_softclose_hinges"}, processing(t, c, "proc_push_to_open"))
	if err != nil || len(auto) != 0 {
		t.Fatalf("expected nothing to add when the room already has it, got %v, %v", auto, err)
	}

	_, err = e.RoomRequirements(nil, processing(t, c, "proc_glaze"))
	var req *RequirementError
	if !errors.As(err, &req) || !slices.Equal(req.Missing, []string{"proc_custom_color"}) {
		t.Fatalf("expected custom color to block glaze, got %v", err)
	}
}

func TestNeedsOptions(t *testing.T) {
	_, c := fixture(t)
	sink := processing(t, c, "proc_sink_cutout")
	color := processing(t, c, "proc_custom_color")
	drawers := processing(t, c, "proc_drawer_upgrade")

	tests := []struct {
		name   string
		proc   catalog.Processing
		values catalog.OptionValues
		want   bool
	}{
		{"required select missing", sink, nil, true},
		{"required select unknown choice", sink, catalog.OptionValues{"opt_sink_mount": catalog.SelectValue{Choice: "vessel"}}, true},
		{"required select wrong kind", sink, catalog.OptionValues{"opt_sink_mount": catalog.TextValue{Text: "undermount"}}, true},
		{"required select supplied", sink, catalog.OptionValues{"opt_sink_mount": catalog.SelectValue{Choice: "undermount"}}, false},
		{"requiresOptions color missing", color, nil, true},
		{"requiresOptions color supplied", color, catalog.OptionValues{"opt_color": catalog.ColorValue{Choice: "hc154"}}, false},
		{"optional options only", drawers, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsOptions(tt.proc, tt.values); got != tt.want {
				t.Fatalf("NeedsOptions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	_, c := fixture(t)

	values, complete := Defaults(processing(t, c, "proc_drawer_upgrade"))
	if !complete || len(values) != 2 {
		t.Fatalf("drawer defaults = %v complete=%v", values, complete)
	}
	if _, complete := Defaults(processing(t, c, "proc_sink_cutout")); complete {
		t.Fatalf("sink cutout has no default for a required option")
	}
}

func TestInheritsFromRoom(t *testing.T) {
	e, c := fixture(t)

	if !e.InheritsFromRoom(product(t, c, "prod_base_24")) {
		t.Fatalf("cabinets inherit room processings")
	}
	if e.InheritsFromRoom(product(t, c, "prod_dishwasher_panel")) {
		t.Fatalf("appliances are excluded from inheritance by rule")
	}
}

func TestRoomConflict(t *testing.T) {
	e, _ := fixture(t)

	if err := e.RoomConflict([]string{"proc_stain_dark"}, "proc_paint_white"); err == nil {
		t.Fatalf("expected paint to conflict with an active stain")
	}
	if err := e.RoomConflict([]string{"proc_stain_dark"}, "proc_install_pulls"); err != nil {
		t.Fatalf("unexpected conflict: %v", err)
	}
}
