package printout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleQuote() quote.Quote {
	at := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	q := quote.Quote{
		ID:          "q1",
		QuoteNumber: "Q-20261001-ABC123",
		CustomerID:  "cust_chen",
		Rooms: []quote.Room{
			{ID: "r1", Name: "Kitchen", FrontModelID: "model_shaker", ActivatedProcessings: []string{"proc_stain_dark"}},
			{ID: "r2", Name: "Bar", FrontModelID: "model_shaker"},
		},
		Items: []quote.Item{
			{
				ID: "i1", ProductID: "prod_base_24", RoomID: "r1", Quantity: 1, BasePrice: dec("285"),
				Inherited: []quote.InheritedProcessing{{Processing: "proc_stain_dark", CalculatedPrice: dec("42.75"), AppliedDate: at}},
				Manual:    []quote.ManualProcessing{{Processing: "proc_install_pulls", CalculatedPrice: dec("12"), AppliedDate: at}},
			},
			{
				ID: "i2", ProductID: "prod_quartz_top", RoomID: "r2", Quantity: 1, BasePrice: dec("68"),
				Manual: []quote.ManualProcessing{{
					Processing:      "proc_sink_cutout",
					CalculatedPrice: dec("225"),
					Options:         catalog.OptionValues{"opt_sink_mount": catalog.SelectValue{Choice: "undermount"}},
					AppliedDate:     at,
				}},
				Suggestions: []quote.Suggestion{{ProductID: "prod_hinge_pair", Quantity: 2}},
			},
		},
		ContractDiscount:  dec("8"),
		CustomerDiscount:  dec("8"),
		OrderDiscount:     dec("20"),
		ApprovalThreshold: dec("500"),
		Status:            quote.StatusPendingApproval,
		CreatedAt:         at,
		ExpiresAt:         at.AddDate(0, 0, 30),
		Notes:             "Deliver <after> noon",
	}
	return quote.Recalculate(q)
}

func TestBuildGroupsByRoomAndTagsSource(t *testing.T) {
	doc := Build(sampleQuote(), catalog.Default())

	if doc.CustomerName != "Mike Chen" || doc.Company != "Chen Builders" {
		t.Fatalf("customer = %q / %q", doc.CustomerName, doc.Company)
	}
	if len(doc.Sections) != 2 || doc.Sections[0].RoomName != "Kitchen" || doc.Sections[0].ModelName != "Shaker Classic" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}

	kitchen := doc.Sections[0].Lines[0]
	if kitchen.ProductName != "Base Cabinet 24\"" {
		t.Fatalf("product name = %q", kitchen.ProductName)
	}
	if kitchen.Processings[0].Source != SourceInherited || kitchen.Processings[1].Source != SourceManual {
		t.Fatalf("unexpected sources: %+v", kitchen.Processings)
	}
	if !doc.Sections[0].Subtotal.Equal(dec("339.75")) {
		t.Fatalf("kitchen subtotal = %s", doc.Sections[0].Subtotal)
	}

	bar := doc.Sections[1].Lines[0]
	if bar.Processings[0].Options != "Sink mount: Undermount" {
		t.Fatalf("options = %q", bar.Processings[0].Options)
	}
	if len(bar.Suggestions) != 1 || bar.Suggestions[0] != "2 × Concealed Hinge Pair" {
		t.Fatalf("suggestions = %v", bar.Suggestions)
	}
}

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0.00",
		"12":      "$12.00",
		"1234.5":  "$1,234.50",
		"10000":   "$10,000.00",
		"-42.755": "-$42.76",
		"329.56":  "$329.56",
		"1000000": "$1,000,000.00",
	}
	for in, want := range cases {
		if got := Money(dec(in)); got != want {
			t.Fatalf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, Build(sampleQuote(), catalog.Default())); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Q-20261001-ABC123",
		"Manager approval required",
		"Kitchen",
		`class="tag inherited"`,
		"Customer discount (8%)",
		"Contract discount (informational)",
		"Deliver &lt;after&gt; noon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	doc := Build(sampleQuote(), catalog.Default())
	if err := RenderText(&buf, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"QUOTE Q-20261001-ABC123",
		"MANAGER APPROVAL REQUIRED",
		"== Kitchen [Shaker Classic] ==",
		"+ Dark Stain [inherited]: $42.75",
		"+ Sink Cutout [manual] (Sink mount: Undermount): $225.00",
		"TOTAL: " + Money(doc.FinalTotal),
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderTextWithoutApproval(t *testing.T) {
	q := sampleQuote()
	q.ApprovalThreshold = dec("10000")
	q = quote.Recalculate(q)

	var buf bytes.Buffer
	if err := RenderText(&buf, Build(q, catalog.Default())); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "APPROVAL") {
		t.Fatalf("approval banner should be absent")
	}
}
