package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func categories(cs ...ProductCategory) []ProductCategory { return cs }

func inherit(v bool) *bool { return &v }

// Sample returns the showroom catalog used for local development and seeding.
func Sample() Data {
	return Data{
		Models: []Model{
			{ID: "model_shaker", Name: "Shaker Classic", Description: "Five-piece recessed panel door in solid maple", Category: ModelTraditional},
			{ID: "model_slab", Name: "Urban Slab", Description: "Flat slab fronts with thin-profile edges", Category: ModelModern},
			{ID: "model_hampton", Name: "Hampton", Description: "Shaker profile with a beaded inset", Category: ModelTransitional},
		},
		Products: []Product{
			{ID: "prod_base_24", ModelID: "model_shaker", Name: "Base Cabinet 24\"", Category: CategoryCabinet, SubCategory: "base", BasePrice: d("285"), Unit: UnitEach, Dimensions: &Dimensions{Width: 24, Height: 34.5, Depth: 24}, InStock: true, LeadTimeDays: 14, Description: "Single door base with one adjustable shelf"},
			{ID: "prod_wall_30", ModelID: "model_shaker", Name: "Wall Cabinet 30\"", Category: CategoryCabinet, SubCategory: "wall", BasePrice: d("195"), Unit: UnitEach, Dimensions: &Dimensions{Width: 30, Height: 30, Depth: 12}, InStock: true, LeadTimeDays: 14, Description: "Double door wall cabinet"},
			{ID: "prod_pantry_84", ModelID: "model_shaker", Name: "Tall Pantry 84\"", Category: CategoryCabinet, SubCategory: "tall", BasePrice: d("685"), Unit: UnitEach, Dimensions: &Dimensions{Width: 18, Height: 84, Depth: 24}, InStock: false, LeadTimeDays: 28, Description: "Pantry with roll-out trays"},
			{ID: "prod_door_shaker", ModelID: "model_shaker", Name: "Shaker Door Panel", Category: CategoryDoor, SubCategory: "panel", BasePrice: d("85"), Unit: UnitEach, Dimensions: &Dimensions{Width: 15, Height: 30, Depth: 0.75}, InStock: true, LeadTimeDays: 7, Description: "Replacement or matching door panel"},
			{ID: "prod_pull_bar", ModelID: "model_shaker", Name: "Bar Pull 5\"", Category: CategoryHardware, SubCategory: "pull", BasePrice: d("12"), Unit: UnitEach, InStock: true, LeadTimeDays: 3, Description: "Brushed nickel bar pull"},
			{ID: "prod_hinge_pair", ModelID: "model_shaker", Name: "Concealed Hinge Pair", Category: CategoryHardware, SubCategory: "hinge", BasePrice: d("9.5"), Unit: UnitEach, InStock: true, LeadTimeDays: 3, Description: "110 degree concealed hinges"},
			{ID: "prod_quartz_top", ModelID: "model_shaker", Name: "Quartz Countertop", Category: CategoryCountertop, SubCategory: "quartz", BasePrice: d("68"), Unit: UnitSqft, Dimensions: &Dimensions{Width: 96, Height: 25.5, Depth: 1.25}, InStock: true, LeadTimeDays: 10, Description: "3cm engineered quartz, priced per square foot"},
			{ID: "prod_dishwasher_panel", ModelID: "model_shaker", Name: "Dishwasher Panel Kit", Category: CategoryAppliance, SubCategory: "panel_ready", BasePrice: d("240"), Unit: UnitEach, Dimensions: &Dimensions{Width: 24, Height: 34.5, Depth: 0.75}, InStock: true, LeadTimeDays: 10, Description: "Panel-ready dishwasher front"},
			{ID: "prod_lazy_susan", ModelID: "model_shaker", Name: "Lazy Susan Insert", Category: CategoryAccessory, SubCategory: "organizer", BasePrice: d("145"), Unit: UnitEach, InStock: true, LeadTimeDays: 5, Description: "Two-tier kidney lazy susan"},
			{ID: "prod_slab_base_30", ModelID: "model_slab", Name: "Slab Base 30\"", Category: CategoryCabinet, SubCategory: "base", BasePrice: d("320"), Unit: UnitEach, Dimensions: &Dimensions{Width: 30, Height: 34.5, Depth: 24}, InStock: true, LeadTimeDays: 21, Description: "Two-drawer base"},
			{ID: "prod_slab_wall_36", ModelID: "model_slab", Name: "Slab Wall 36\"", Category: CategoryCabinet, SubCategory: "wall", BasePrice: d("260"), Unit: UnitEach, Dimensions: &Dimensions{Width: 36, Height: 30, Depth: 12}, InStock: true, LeadTimeDays: 21, Description: "Lift-up wall cabinet"},
			{ID: "prod_laminate_top", ModelID: "model_slab", Name: "Laminate Countertop", Category: CategoryCountertop, SubCategory: "laminate", BasePrice: d("22"), Unit: UnitLinft, Dimensions: &Dimensions{Width: 120, Height: 25, Depth: 1.5}, InStock: true, LeadTimeDays: 5, Description: "Post-formed laminate"},
			{ID: "prod_hampton_base_18", ModelID: "model_hampton", Name: "Hampton Base 18\"", Category: CategoryCabinet, SubCategory: "base", BasePrice: d("265"), Unit: UnitEach, Dimensions: &Dimensions{Width: 18, Height: 34.5, Depth: 24}, InStock: true, LeadTimeDays: 18, Description: "Beaded inset base"},
		},
		Processings: []Processing{
			{ID: "proc_stain_dark", Name: "Dark Stain", Description: "Espresso stain with satin topcoat", Category: "finishing", PricingType: Percentage, Price: d("0.15"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "basePrice × quantity × 15%"},
			{ID: "proc_paint_white", Name: "Painted White", Description: "Catalyzed conversion varnish, bright white", Category: "finishing", PricingType: Percentage, Price: d("0.12"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "basePrice × quantity × 12%"},
			{ID: "proc_glaze", Name: "Hand Glaze", Description: "Hand-applied glaze over finish", Category: "finishing", PricingType: PerUnit, Price: d("45"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "$45 × quantity"},
			{ID: "proc_custom_color", Name: "Custom Color Match", Description: "Match any paint deck color", Category: "finishing", PricingType: PerUnit, Price: d("60"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), RequiresOptions: true, Options: []ProcessingOption{
				{ID: "opt_color", Name: "Color", Type: OptionColor, Required: true, Choices: []OptionChoice{
					{Value: "sw7005", Label: "Pure White", PriceModifier: d("0")},
					{Value: "hc154", Label: "Hale Navy", PriceModifier: d("10")},
					{Value: "custom", Label: "Customer Sample", PriceModifier: d("35")},
				}},
			}},
			{ID: "proc_install_pulls", Name: "Install Pulls", Description: "Drill and mount pulls", Category: "hardware_install", PricingType: PerUnit, Price: d("12"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "$12 × quantity"},
			{ID: "proc_softclose_hinges", Name: "Soft-Close Hinges", Description: "Upgrade to soft-close hinges", Category: "hardware_install", PricingType: PerUnit, Price: d("18"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "$18 × quantity"},
			{ID: "proc_push_to_open", Name: "Push-to-Open", Description: "Handle-less push latch mechanism", Category: "mechanism", PricingType: PerUnit, Price: d("35"), ApplicableProductCategories: categories(CategoryCabinet, CategoryDoor), CalculationFormula: "$35 × quantity"},
			{ID: "proc_drawer_upgrade", Name: "Dovetail Drawer Upgrade", Description: "Solid wood dovetail drawer boxes", Category: "upgrade", PricingType: PerUnit, Price: d("55"), ApplicableProductCategories: categories(CategoryCabinet), Options: []ProcessingOption{
				{ID: "opt_full_extension", Name: "Full-extension slides", Type: OptionBoolean, PriceModifier: d("15"), DefaultValue: BooleanValue{Enabled: false}},
				{ID: "opt_dividers", Name: "Extra dividers", Type: OptionNumber, PriceModifier: d("8"), DefaultValue: NumberValue{Value: 0}},
			}},
			{ID: "proc_edge_bullnose", Name: "Bullnose Edge", Description: "Full round edge profile", Category: "countertop_edge", PricingType: PerDimension, Price: d("2.5"), ApplicableProductCategories: categories(CategoryCountertop), CalculationFormula: "2 × (width + height) × $2.50"},
			{ID: "proc_edge_beveled", Name: "Beveled Edge", Description: "45 degree beveled edge", Category: "countertop_edge", PricingType: PerDimension, Price: d("1.75"), ApplicableProductCategories: categories(CategoryCountertop), CalculationFormula: "2 × (width + height) × $1.75"},
			{ID: "proc_edge_ogee", Name: "Ogee Edge", Description: "Decorative ogee profile", Category: "countertop_edge", PricingType: PerDimension, Price: d("4"), ApplicableProductCategories: categories(CategoryCountertop), CalculationFormula: "2 × (width + height) × $4.00"},
			{ID: "proc_sink_cutout", Name: "Sink Cutout", Description: "Cut and polish sink opening", Category: "countertop_cutout", PricingType: PerUnit, Price: d("150"), ApplicableProductCategories: categories(CategoryCountertop), Options: []ProcessingOption{
				{ID: "opt_sink_mount", Name: "Sink mount", Type: OptionSelect, Required: true, Choices: []OptionChoice{
					{Value: "drop_in", Label: "Drop-in", PriceModifier: d("0")},
					{Value: "undermount", Label: "Undermount", PriceModifier: d("75")},
				}},
			}},
			{ID: "proc_led_strip", Name: "Under-Cabinet LED", Description: "Hard-wired LED strip lighting", Category: "lighting", PricingType: PerDimension, Price: d("3.5"), ApplicableProductCategories: categories(CategoryCabinet), CalculationFormula: "width × $3.50"},
			{ID: "proc_crown_molding", Name: "Crown Molding", Description: "Stacked crown along cabinet top", Category: "fabrication", PricingType: PerDimension, Price: d("8"), ApplicableProductCategories: categories(CategoryCabinet), DimensionMetric: MetricWidth, CalculationFormula: "width × $8.00"},
			{ID: "proc_glass_insert", Name: "Glass Insert", Description: "Replace center panel with glass", Category: "door_option", PricingType: PerUnit, Price: d("95"), ApplicableProductCategories: categories(CategoryDoor), Options: []ProcessingOption{
				{ID: "opt_glass", Name: "Glass type", Type: OptionSelect, Required: true, Choices: []OptionChoice{
					{Value: "clear", Label: "Clear", PriceModifier: d("0")},
					{Value: "frosted", Label: "Frosted", PriceModifier: d("25")},
					{Value: "seeded", Label: "Seeded", PriceModifier: d("40")},
				}},
			}},
			{ID: "proc_appliance_panel", Name: "Matching Appliance Panel", Description: "Finish-matched appliance front", Category: "upgrade", PricingType: PerUnit, Price: d("120"), ApplicableProductCategories: categories(CategoryAppliance)},
		},
		Rules: []ProcessingRule{
			{ID: "rule_edge_exclusion", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_edge_bullnose"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_edge_beveled", "proc_edge_ogee"}}, Description: "A countertop has a single edge profile"},
			{ID: "rule_edge_beveled_exclusion", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_edge_beveled"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_edge_bullnose", "proc_edge_ogee"}}, Description: "A countertop has a single edge profile"},
			{ID: "rule_edge_ogee_exclusion", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_edge_ogee"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_edge_bullnose", "proc_edge_beveled"}}, Description: "A countertop has a single edge profile"},
			{ID: "rule_finish_stain", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_stain_dark"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_paint_white", "proc_custom_color"}}, Description: "Stained pieces cannot be painted"},
			{ID: "rule_finish_paint", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_paint_white", "proc_custom_color"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_stain_dark"}}, Description: "Painted pieces cannot be stained"},
			{ID: "rule_push_no_pulls", Type: RuleMutualExclusion, Conditions: RuleConditions{ProcessingIDs: []string{"proc_push_to_open"}}, Actions: RuleActions{ExcludeProcessings: []string{"proc_install_pulls"}}, Description: "Push-to-open fronts are handle-less"},
			{ID: "rule_push_requires_softclose", Type: RuleRequirement, Conditions: RuleConditions{ProcessingIDs: []string{"proc_push_to_open"}}, Actions: RuleActions{RequireProcessings: []string{"proc_softclose_hinges"}}, Description: "Push-to-open needs soft-close hinges"},
			{ID: "rule_glaze_requires_finish", Type: RuleRequirement, Conditions: RuleConditions{ProcessingIDs: []string{"proc_glaze"}}, Actions: RuleActions{RequireProcessings: []string{"proc_custom_color"}}, Description: "Glaze goes over a color match"},
			{ID: "rule_appliance_no_inherit", Type: RuleInheritance, Conditions: RuleConditions{ProductCategories: []ProductCategory{CategoryAppliance, CategoryAccessory}}, Actions: RuleActions{InheritFromRoom: inherit(false)}, Description: "Appliances and accessories keep factory finishes"},
		},
		Dependencies: []ProductDependency{
			{ID: "dep_door_hinges", ProductID: "prod_door_shaker", RequiredProductID: "prod_hinge_pair", QuantityRatio: d("1"), IsAutomatic: true, Description: "Each door panel needs a hinge pair"},
			{ID: "dep_base_pulls", ProductID: "prod_base_24", RequiredProductID: "prod_pull_bar", QuantityRatio: d("1"), IsAutomatic: false, Description: "Suggest one pull per base cabinet"},
			{ID: "dep_wall_pulls", ProductID: "prod_wall_30", RequiredProductID: "prod_pull_bar", QuantityRatio: d("2"), IsAutomatic: false, Description: "Double door wall cabinets take two pulls"},
		},
		Customers: []Customer{
			{ID: "cust_johnson", Name: "Sarah Johnson", Email: "sarah.johnson@example.com", Phone: "555-0142", Address: "18 Elm Street, Springfield", DiscountPercent: d("3")},
			{ID: "cust_chen", Name: "Mike Chen", Company: "Chen Builders", Email: "mike@chenbuilders.example.com", Phone: "555-0199", Address: "402 Industrial Way, Springfield", DiscountPercent: d("8"), ContractID: "ctr_builder"},
			{ID: "cust_walkin", Name: "Walk-in Customer", DiscountPercent: d("0")},
		},
		Contracts: []Contract{
			{ID: "ctr_builder", Name: "Builder Program", DiscountPercent: d("8"), ValidUntil: time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// Default returns the indexed sample catalog.
func Default() *Catalog {
	return New(Sample())
}
