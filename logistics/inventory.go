package logistics

import (
	"math"
	"sort"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/tool"
)

const (
	shortageHorizonDays = 14
	safetyStockDays     = 3
	defaultLeadTimeDays = 7
)

// InventoryTools returns the inventory manager's tools.
func InventoryTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("check_stock_levels",
			"Check current inventory stock levels and identify products below reorder points. "+
				"Reads inventory.csv to provide stock level analysis.",
			d.checkStockLevels),
		tool.NewTypedFunctionTool("predict_inventory_shortage",
			"Predict inventory shortages and calculate days until stockout. "+
				"Analyzes inventory.csv to forecast the shortage timeline.",
			d.predictInventoryShortage),
		tool.NewTypedFunctionTool("update_reorder_points",
			"Analyze and recommend updates to reorder points based on demand patterns. "+
				"Reads inventory.csv to optimize reorder points.",
			d.updateReorderPoints),
	}
}

func belowReorderPoint(r table.Row) bool {
	stock, ok1 := r.Float("current_stock")
	point, ok2 := r.Float("reorder_point")

	return ok1 && ok2 && stock <= point
}

func (d *Data) checkStockLevels(_ *core.ToolContext, in scenarioArgs) (any, error) {
	inventory, err := d.Required("check_stock_levels", in.ScenarioDir, "inventory.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Inventory Stock Level Analysis")
	r.line("Total products tracked: %d", inventory.Len())

	if inventory.Has("current_stock") {
		r.line("Total units in stock: %s", whole(inventory.Sum("current_stock")))
	}

	if inventory.Has("current_stock", "reorder_point") {
		low := inventory.Filter(belowReorderPoint)

		if low.Empty() {
			r.blank()
			r.line("✓ All products above reorder point")
		} else {
			r.blank()
			r.line("⚠️ Products below reorder point: %d", low.Len())
			r.rule()

			for _, item := range low.Rows() {
				r.WriteString("  • Product " + item.StringOr("product_id", "N/A") +
					": Stock=" + item.StringOr("current_stock", "0") +
					", Reorder Point=" + item.StringOr("reorder_point", "0"))

				if item.Has("priority") {
					r.WriteString(", Priority=" + item.String("priority"))
				}

				if item.Has("days_until_stockout") {
					r.WriteString("\n    ⏱️ Days until stockout: " + item.String("days_until_stockout"))
				}

				r.blank()
			}
		}
	}

	if inventory.Has("current_stock", "unit_value") {
		total := 0.0
		for _, item := range inventory.Rows() {
			total += item.FloatOr("current_stock", 0) * item.FloatOr("unit_value", 0)
		}

		r.blank()
		r.line("Total inventory value: %s", money(total))
	}

	return r.String(), nil
}

func stockoutUrgency(days float64) string {
	switch {
	case days <= 3:
		return "🚨 CRITICAL"
	case days <= 7:
		return "⚠️ HIGH"
	default:
		return "⚡ MEDIUM"
	}
}

func (d *Data) predictInventoryShortage(_ *core.ToolContext, in productArgs) (any, error) {
	inventory, err := d.Required("predict_inventory_shortage", in.ScenarioDir, "inventory.csv")
	if err != nil {
		return nil, err
	}

	if in.ProductID != "" {
		inventory = inventory.Where("product_id", in.ProductID)
		if inventory.Empty() {
			return "Product " + in.ProductID + " not found in inventory", nil
		}
	}

	r := newReport("Inventory Shortage Prediction")
	r.rule()

	var atRisk *table.Table

	switch {
	case inventory.Has("days_until_stockout"):
		atRisk = inventory.Filter(func(row table.Row) bool {
			days, ok := row.Float("days_until_stockout")
			return ok && days <= shortageHorizonDays
		})
	case inventory.Has("current_stock", "reorder_point"):
		atRisk = inventory.Filter(belowReorderPoint)
	}

	if atRisk == nil || atRisk.Empty() {
		r.line("✓ No immediate shortage risks detected")
		return r.String(), nil
	}

	r.line("Products at risk of shortage: %d", atRisk.Len())
	r.blank()

	for _, item := range atRisk.Rows() {
		r.line("📦 Product %s:", item.StringOr("product_id", "N/A"))
		r.line("   Current Stock: %s", item.StringOr("current_stock", "0"))

		if item.Has("reorder_point") {
			r.line("   Reorder Point: %s", item.StringOr("reorder_point", "0"))
		}

		if days, ok := item.Float("days_until_stockout"); ok {
			r.line("   Days Until Stockout: %s %s", item.String("days_until_stockout"), stockoutUrgency(days))
		}

		if item.Has("daily_demand") {
			r.line("   Daily Demand: %s", item.String("daily_demand"))
		}

		if item.Has("priority") {
			r.line("   Priority: %s", item.String("priority"))
		}

		r.blank()
	}

	return r.String(), nil
}

type reorderRecommendation struct {
	productID   string
	current     float64
	recommended float64
	changePct   float64
	priority    string
}

func (d *Data) updateReorderPoints(_ *core.ToolContext, in scenarioArgs) (any, error) {
	inventory, err := d.Required("update_reorder_points", in.ScenarioDir, "inventory.csv")
	if err != nil {
		return nil, err
	}

	var recs []reorderRecommendation

	for _, item := range inventory.Rows() {
		demand, ok := item.Float("daily_demand")
		if !ok {
			continue
		}

		current := item.FloatOr("reorder_point", 0)
		recommended := demand * (item.FloatOr("lead_time_days", defaultLeadTimeDays) + safetyStockDays)

		if math.Abs(recommended-current) <= demand {
			continue
		}

		recs = append(recs, reorderRecommendation{
			productID:   item.StringOr("product_id", "N/A"),
			current:     current,
			recommended: recommended,
			changePct:   percentChange(current, recommended),
			priority:    item.StringOr("priority", "MEDIUM"),
		})
	}

	r := newReport("Reorder Point Analysis")
	r.rule()

	if len(recs) == 0 {
		r.line("✓ Current reorder points are appropriately set")
		return r.String(), nil
	}

	r.line("Recommended Reorder Point Adjustments: %d", len(recs))
	r.blank()

	sort.SliceStable(recs, func(i, j int) bool {
		return math.Abs(recs[i].changePct) > math.Abs(recs[j].changePct)
	})

	if len(recs) > 10 {
		recs = recs[:10]
	}

	for _, rec := range recs {
		r.line("📊 Product %s:", rec.productID)
		r.line("   Current Reorder Point: %s", whole(rec.current))
		r.line("   Recommended: %s", whole(rec.recommended))
		r.line("   Change: %+.1f%%", rec.changePct)
		r.line("   Priority: %s", rec.priority)
		r.blank()
	}

	return r.String(), nil
}
