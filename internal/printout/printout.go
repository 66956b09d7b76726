// Package printout turns a quote into a read-only document grouped by room,
// rendered as HTML or plain text.
package printout

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
)

const (
	SourceInherited = "inherited"
	SourceManual    = "manual"
)

type ProcessingLine struct {
	ProcessingID string
	Name         string
	Source       string
	Options      string
	Price        decimal.Decimal
	Pending      bool
}

type Line struct {
	ItemID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	BaseTotal   decimal.Decimal
	Total       decimal.Decimal
	Processings []ProcessingLine
	Suggestions []string
}

type Section struct {
	RoomID      string
	RoomName    string
	ModelName   string
	Description string
	Lines       []Line
	Subtotal    decimal.Decimal
}

type Document struct {
	QuoteID      string
	QuoteNumber  string
	Status       quote.Status
	CustomerName string
	Company      string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Sections     []Section
	Notes        string
	Warnings     []string

	Subtotal               decimal.Decimal
	ContractDiscount       decimal.Decimal
	CustomerDiscount       decimal.Decimal
	CustomerDiscountAmount decimal.Decimal
	OrderDiscount          decimal.Decimal
	TotalDiscount          decimal.Decimal
	FinalTotal             decimal.Decimal
	RequiresApproval       bool
	ApprovalThreshold      decimal.Decimal
	HasPendingOptions      bool
}

// Build lays q out by room in quote order. Ids missing from c print as-is.
func Build(q quote.Quote, c *catalog.Catalog) Document {
	doc := Document{
		QuoteID:                q.ID,
		QuoteNumber:            q.QuoteNumber,
		Status:                 q.Status,
		CustomerName:           q.CustomerID,
		CreatedAt:              q.CreatedAt,
		ExpiresAt:              q.ExpiresAt,
		Notes:                  q.Notes,
		Warnings:               q.Warnings,
		Subtotal:               q.Subtotal,
		ContractDiscount:       q.ContractDiscount,
		CustomerDiscount:       q.CustomerDiscount,
		CustomerDiscountAmount: q.CustomerDiscountAmount,
		OrderDiscount:          q.OrderDiscount,
		TotalDiscount:          q.TotalDiscount,
		FinalTotal:             q.FinalTotal,
		RequiresApproval:       q.RequiresApproval,
		ApprovalThreshold:      q.ApprovalThreshold,
		HasPendingOptions:      q.HasPendingOptions,
	}
	if cust, ok := c.Customer(q.CustomerID); ok {
		doc.CustomerName = cust.Name
		doc.Company = cust.Company
	}

	for _, room := range q.Rooms {
		sec := Section{
			RoomID:      room.ID,
			RoomName:    room.Name,
			ModelName:   room.FrontModelID,
			Description: room.Description,
			Subtotal:    decimal.Zero,
		}
		if m, ok := c.Model(room.FrontModelID); ok {
			sec.ModelName = m.Name
		}
		for _, it := range q.ItemsInRoom(room.ID) {
			line := buildLine(it, c)
			sec.Lines = append(sec.Lines, line)
			sec.Subtotal = sec.Subtotal.Add(line.Total)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc
}

func buildLine(it quote.Item, c *catalog.Catalog) Line {
	line := Line{
		ItemID:      it.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductID,
		Quantity:    it.Quantity,
		UnitPrice:   it.BasePrice,
		BaseTotal:   it.BasePrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		Total:       it.TotalPrice,
	}
	if p, ok := c.Product(it.ProductID); ok {
		line.ProductName = p.Name
	}

	for _, p := range it.Inherited {
		line.Processings = append(line.Processings, ProcessingLine{
			ProcessingID: p.Processing,
			Name:         processingName(c, p.Processing),
			Source:       SourceInherited,
			Price:        p.CalculatedPrice,
		})
	}
	for _, p := range it.Manual {
		line.Processings = append(line.Processings, ProcessingLine{
			ProcessingID: p.Processing,
			Name:         processingName(c, p.Processing),
			Source:       SourceManual,
			Options:      describeOptions(c, p.Processing, p.Options),
			Price:        p.CalculatedPrice,
			Pending:      p.Pending,
		})
	}
	for _, s := range it.Suggestions {
		name := s.ProductID
		if p, ok := c.Product(s.ProductID); ok {
			name = p.Name
		}
		line.Suggestions = append(line.Suggestions, fmt.Sprintf("%d × %s", s.Quantity, name))
	}
	return line
}

func processingName(c *catalog.Catalog, id string) string {
	if p, ok := c.Processing(id); ok {
		return p.Name
	}
	return id
}

// describeOptions lists the chosen values in the processing's option order.
func describeOptions(c *catalog.Catalog, processingID string, values catalog.OptionValues) string {
	proc, ok := c.Processing(processingID)
	if !ok || len(values) == 0 {
		return ""
	}
	var parts []string
	for _, opt := range proc.Options {
		v, ok := values[opt.ID]
		if !ok || !opt.Accepts(v) {
			continue
		}
		parts = append(parts, opt.Name+": "+optionLabel(opt, v))
	}
	return strings.Join(parts, ", ")
}

func optionLabel(opt catalog.ProcessingOption, v catalog.OptionValue) string {
	label := func(value string) string {
		for _, ch := range opt.Choices {
			if ch.Value == value {
				return ch.Label
			}
		}
		return value
	}
	switch v := v.(type) {
	case catalog.SelectValue:
		return label(v.Choice)
	case catalog.ColorValue:
		return label(v.Choice)
	case catalog.NumberValue:
		return humanize.Ftoa(v.Value)
	case catalog.TextValue:
		return v.Text
	case catalog.BooleanValue:
		if v.Enabled {
			return "yes"
		}
		return "no"
	case catalog.DimensionsValue:
		return fmt.Sprintf("%s × %s × %s", humanize.Ftoa(v.Width), humanize.Ftoa(v.Height), humanize.Ftoa(v.Depth))
	}
	return ""
}

// Money formats an amount as dollars with thousands separators.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// Percent formats a percentage without trailing zeros.
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}
