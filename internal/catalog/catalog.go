package catalog

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ModelCategory classifies a cabinet front style.
type ModelCategory string

const (
	ModelTraditional  ModelCategory = "traditional"
	ModelModern       ModelCategory = "modern"
	ModelTransitional ModelCategory = "transitional"
)

// ProductCategory decides which processings can be applied to a product.
type ProductCategory string

const (
	CategoryCabinet    ProductCategory = "cabinet"
	CategoryDoor       ProductCategory = "door"
	CategoryHardware   ProductCategory = "hardware"
	CategoryCountertop ProductCategory = "countertop"
	CategoryAppliance  ProductCategory = "appliance"
	CategoryAccessory  ProductCategory = "accessory"
)

// Unit is the selling unit of a product.
type Unit string

const (
	UnitEach  Unit = "each"
	UnitSqft  Unit = "sqft"
	UnitLinft Unit = "linft"
)

// PricingType selects the pricing formula of a processing.
type PricingType string

const (
	PerUnit      PricingType = "per_unit"
	PerDimension PricingType = "per_dimension"
	Percentage   PricingType = "percentage"
)

// DimensionMetric selects how a per_dimension processing measures a product.
type DimensionMetric string

const (
	MetricLinearSum DimensionMetric = "linear_sum"
	MetricWidth     DimensionMetric = "width"
	MetricPerimeter DimensionMetric = "perimeter"
)

// RuleType is the kind of a processing rule.
type RuleType string

const (
	RuleMutualExclusion RuleType = "mutual_exclusion"
	RuleRequirement     RuleType = "requirement"
	RuleInheritance     RuleType = "inheritance"
)

// Dimensions are expressed in inches.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Model struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    ModelCategory `json:"category"`
}

type Product struct {
	ID           string          `json:"id"`
	ModelID      string          `json:"modelId"`
	Name         string          `json:"name"`
	Category     ProductCategory `json:"category"`
	SubCategory  string          `json:"subCategory"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	Unit         Unit            `json:"unit"`
	Dimensions   *Dimensions     `json:"dimensions,omitempty"`
	InStock      bool            `json:"inStock"`
	LeadTimeDays int             `json:"leadTimeDays"`
	Description  string          `json:"description"`
}

// Processing is a priced finishing, hardware or fabrication operation.
type Processing struct {
	ID                          string             `json:"id"`
	Name                        string             `json:"name"`
	Description                 string             `json:"description"`
	Category                    string             `json:"category"`
	PricingType                 PricingType        `json:"pricingType"`
	Price                       decimal.Decimal    `json:"price"`
	ApplicableProductCategories []ProductCategory  `json:"applicableProductCategories"`
	CalculationFormula          string             `json:"calculationFormula,omitempty"`
	DimensionMetric             DimensionMetric    `json:"dimensionMetric,omitempty"`
	RequiresOptions             bool               `json:"requiresOptions,omitempty"`
	Options                     []ProcessingOption `json:"options,omitempty"`
}

// AppliesTo reports whether the processing can be applied to products of category c.
func (p Processing) AppliesTo(c ProductCategory) bool {
	return slices.Contains(p.ApplicableProductCategories, c)
}

// Metric returns the dimension metric used for per_dimension pricing.
// An explicit metric wins; otherwise the processing category decides.
func (p Processing) Metric() DimensionMetric {
	if p.DimensionMetric != "" {
		return p.DimensionMetric
	}
	switch p.Category {
	case "countertop_edge":
		return MetricPerimeter
	case "lighting":
		return MetricWidth
	default:
		return MetricLinearSum
	}
}

// Option returns the processing option with the given id.
func (p Processing) Option(id string) (ProcessingOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ProcessingOption{}, false
}

type RuleConditions struct {
	ProcessingIDs     []string          `json:"processingIds,omitempty"`
	ProductCategories []ProductCategory `json:"productCategories,omitempty"`
}

type RuleActions struct {
	ExcludeProcessings []string `json:"excludeProcessings,omitempty"`
	RequireProcessings []string `json:"requireProcessings,omitempty"`
	InheritFromRoom    *bool    `json:"inheritFromRoom,omitempty"`
}

type ProcessingRule struct {
	ID          string         `json:"id"`
	Type        RuleType       `json:"type"`
	Conditions  RuleConditions `json:"conditions"`
	Actions     RuleActions    `json:"actions"`
	Description string         `json:"description"`
}

// ProductDependency declares that a product needs another product alongside it.
type ProductDependency struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"productId"`
	RequiredProductID string          `json:"requiredProductId"`
	QuantityRatio     decimal.Decimal `json:"quantityRatio"`
	IsAutomatic       bool            `json:"isAutomatic"`
	Description       string          `json:"description"`
}

// RequiredQuantity returns how many of the required product go with qty items.
func (d ProductDependency) RequiredQuantity(qty int) int {
	ratio := d.QuantityRatio
	if ratio.IsZero() {
		ratio = decimal.NewFromInt(1)
	}
	n := int(decimal.NewFromInt(int64(qty)).Mul(ratio).Ceil().IntPart())
	if n < 1 {
		return 1
	}
	return n
}

type Customer struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Company         string          `json:"company,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ContractID      string          `json:"contractId,omitempty"`
}

type Contract struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ValidUntil      time.Time       `json:"validUntil"`
}

// Data is the serializable form of a catalog.
type Data struct {
	Models       []Model             `json:"models"`
	Products     []Product           `json:"products"`
	Processings  []Processing        `json:"processings"`
	Rules        []ProcessingRule    `json:"rules"`
	Dependencies []ProductDependency `json:"dependencies"`
	Customers    []Customer          `json:"customers"`
	Contracts    []Contract          `json:"contracts"`
}

// Catalog is the immutable reference data the engine prices against.
// Lookups never fail loudly: unknown ids report ok=false.
type Catalog struct {
	data        Data
	models      map[string]Model
	products    map[string]Product
	processings map[string]Processing
	customers   map[string]Customer
	contracts   map[string]Contract
}

// New indexes d. The slices in d are copied so later edits by the caller
// do not leak into the catalog.
func New(d Data) *Catalog {
	d = Data{
		Models:       slices.Clone(d.Models),
		Products:     slices.Clone(d.Products),
		Processings:  slices.Clone(d.Processings),
		Rules:        slices.Clone(d.Rules),
		Dependencies: slices.Clone(d.Dependencies),
		Customers:    slices.Clone(d.Customers),
		Contracts:    slices.Clone(d.Contracts),
	}
	c := &Catalog{
		data:        d,
		models:      make(map[string]Model, len(d.Models)),
		products:    make(map[string]Product, len(d.Products)),
		processings: make(map[string]Processing, len(d.Processings)),
		customers:   make(map[string]Customer, len(d.Customers)),
		contracts:   make(map[string]Contract, len(d.Contracts)),
	}
	for _, m := range d.Models {
		c.models[m.ID] = m
	}
	for _, p := range d.Products {
		c.products[p.ID] = p
	}
	for _, p := range d.Processings {
		c.processings[p.ID] = p
	}
	for _, cu := range d.Customers {
		c.customers[cu.ID] = cu
	}
	for _, ct := range d.Contracts {
		c.contracts[ct.ID] = ct
	}
	return c
}

func (c *Catalog) Model(id string) (Model, bool) {
	m, ok := c.models[id]
	return m, ok
}

func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

func (c *Catalog) Processing(id string) (Processing, bool) {
	p, ok := c.processings[id]
	return p, ok
}

func (c *Catalog) Customer(id string) (Customer, bool) {
	cu, ok := c.customers[id]
	return cu, ok
}

func (c *Catalog) Contract(id string) (Contract, bool) {
	ct, ok := c.contracts[id]
	return ct, ok
}

func (c *Catalog) Models() []Model                   { return slices.Clone(c.data.Models) }
func (c *Catalog) Products() []Product               { return slices.Clone(c.data.Products) }
func (c *Catalog) Processings() []Processing         { return slices.Clone(c.data.Processings) }
func (c *Catalog) Rules() []ProcessingRule           { return slices.Clone(c.data.Rules) }
func (c *Catalog) Customers() []Customer             { return slices.Clone(c.data.Customers) }
func (c *Catalog) Dependencies() []ProductDependency { return slices.Clone(c.data.Dependencies) }

// ProductsForModel lists the products styled by the given model.
func (c *Catalog) ProductsForModel(modelID string) []Product {
	var out []Product
	for _, p := range c.data.Products {
		if p.ModelID == modelID {
			out = append(out, p)
		}
	}
	return out
}

// DependenciesFor lists the dependencies declared for productID.
func (c *Catalog) DependenciesFor(productID string) []ProductDependency {
	var out []ProductDependency
	for _, d := range c.data.Dependencies {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out
}

// Data returns a copy of the catalog contents.
func (c *Catalog) Data() Data {
	return Data{
		Models:       c.Models(),
		Products:     c.Products(),
		Processings:  c.Processings(),
		Rules:        c.Rules(),
		Dependencies: c.Dependencies(),
		Customers:    c.Customers(),
		Contracts:    slices.Clone(c.data.Contracts),
	}
}
