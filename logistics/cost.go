package logistics

import (
	"math"
	"strings"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/tool"
)

// CostTools returns the cost optimizer's tools.
func CostTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("analyze_financial_costs",
			"Analyze all financial costs across operations to identify overruns and inefficiencies. "+
				"Reads cost_analysis.csv to provide a comprehensive cost breakdown.",
			d.analyzeFinancialCosts),
		tool.NewTypedFunctionTool("calculate_roi",
			"Calculate return on investment for cost optimization initiatives. "+
				"Provides ROI analysis and payback period calculations.",
			calculateROI),
		tool.NewTypedFunctionTool("identify_cost_savings",
			"Identify cost savings opportunities across routes, suppliers, and warehouse operations. "+
				"Reads route_efficiency.csv, supplier_pricing.csv, and warehouse_utilization.csv.",
			d.identifyCostSavings),
	}
}

func budgetStatus(variance float64) string {
	switch {
	case variance > 10:
		return "🚨 Over Budget"
	case variance > 5:
		return "⚠️ Slightly Over"
	default:
		return "✓ On Track"
	}
}

func paybackAssessment(months float64) string {
	switch {
	case months <= 6:
		return "🟢 Excellent - Quick payback"
	case months <= 12:
		return "🟡 Good - Reasonable payback"
	case months <= 24:
		return "🟠 Fair - Long payback"
	default:
		return "🔴 Poor - Very long payback"
	}
}

func (d *Data) analyzeFinancialCosts(_ *core.ToolContext, in scenarioArgs) (any, error) {
	costs, ok, err := d.Optional("analyze_financial_costs", in.ScenarioDir, "cost_analysis.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return "No cost analysis data available for this scenario", nil
	}

	r := newReport("Financial Cost Analysis")
	r.rule()

	actual := costs.Sum("actual_cost")
	if costs.Has("actual_cost") {
		r.line("Total Actual Costs: %s", money(actual))
	}

	if costs.Has("budgeted_cost") {
		budget := costs.Sum("budgeted_cost")
		r.line("Total Budgeted Costs: %s", money(budget))

		if costs.Has("actual_cost") {
			overrun := actual - budget
			pct := 0.0

			if budget > 0 {
				pct = overrun / budget * 100
			}

			if overrun > 0 {
				r.line("💰 Budget Overrun: %s (%+.1f%%)", money(overrun), pct)
			} else {
				r.line("✓ Under Budget: %s (%+.1f%%)", money(math.Abs(overrun)), pct)
			}
		}
	}

	if costs.Has("category") {
		r.blank()
		r.line("📊 Cost Breakdown by Category:")

		for _, item := range costs.Rows() {
			itemActual := item.FloatOr("actual_cost", 0)
			itemBudget := item.FloatOr("budgeted_cost", 0)

			r.blank()
			r.line("%s:", item.StringOr("category", "N/A"))
			r.line("   Actual: %s", money(itemActual))
			r.line("   Budget: %s", money(itemBudget))

			if itemBudget > 0 {
				variance := percentChange(itemBudget, itemActual)
				r.line("   Variance: %+.1f%% %s", variance, budgetStatus(variance))
			}

			if savings := item.FloatOr("potential_savings", 0); savings > 0 {
				r.line("   💡 Potential Savings: %s", money(savings))
			}
		}
	}

	if total := costs.Sum("potential_savings"); total > 0 {
		r.blank()
		r.line("💰 Total Potential Savings: %s", money(total))
	}

	return r.String(), nil
}

func calculateROI(_ *core.ToolContext, in roiArgs) (any, error) {
	if in.InvestmentAmount < 0 {
		return nil, tool.NewToolError("calculate_roi", "investment_amount must not be negative", tool.CodeValidation)
	}

	annual := in.ExpectedSavings * 12

	roi := func(savings float64) float64 {
		if in.InvestmentAmount <= 0 {
			return 0
		}

		return (savings - in.InvestmentAmount) / in.InvestmentAmount * 100
	}

	r := newReport("ROI Analysis")
	r.rule()
	r.line("Investment Amount: %s", money(in.InvestmentAmount))
	r.line("Expected Monthly Savings: %s", money(in.ExpectedSavings))
	r.line("Expected Annual Savings: %s", money(annual))
	r.blank()
	r.line("📊 Financial Metrics:")
	r.line("   ROI (1 year): %+.1f%%", roi(annual))

	if in.ExpectedSavings > 0 {
		payback := in.InvestmentAmount / in.ExpectedSavings
		r.line("   Payback Period: %.1f months", payback)
		r.line("   Assessment: %s", paybackAssessment(payback))
	} else {
		r.line("   Payback Period: Not achievable with current savings")
		r.line("   Assessment: 🔴 Not recommended")
	}

	threeYear := annual * 3

	r.blank()
	r.line("📈 3-Year Projection:")
	r.line("   Total Savings: %s", money(threeYear))
	r.line("   ROI: %+.1f%%", roi(threeYear))

	return r.String(), nil
}

func (d *Data) identifyCostSavings(_ *core.ToolContext, in scenarioArgs) (any, error) {
	const name = "identify_cost_savings"

	var files [3]*table.Table

	for i, file := range []string{"route_efficiency.csv", "supplier_pricing.csv", "warehouse_utilization.csv"} {
		tbl, ok, err := d.Optional(name, in.ScenarioDir, file)
		if err != nil {
			return nil, err
		}

		if ok {
			files[i] = tbl
		}
	}

	routes, suppliers, warehouses := files[0], files[1], files[2]

	r := newReport("Cost Savings Opportunities")
	r.rule()

	total := 0.0

	if routes != nil {
		r.blank()
		r.line("🚚 Route Optimization Opportunities:")
		r.line("   Routes analyzed: %d", routes.Len())

		if routes.Has("potential_savings") {
			savings := routes.Sum("potential_savings")
			total += savings
			r.line("   Potential savings: %s/month", money(savings))
		}

		suggestions := routes.Filter(func(row table.Row) bool { return row.String("optimization_suggestion") != "" })
		if !suggestions.Empty() {
			r.blank()
			r.line("   Top suggestions:")

			for _, route := range suggestions.Head(3).Rows() {
				r.WriteString("   • Route " + route.StringOr("route_id", "N/A") + ": " + route.String("optimization_suggestion"))
				if v, ok := route.Float("potential_savings"); ok {
					r.WriteString(" (Save: " + money(v) + "/month)")
				}

				r.blank()
			}
		}
	}

	if suppliers != nil {
		r.blank()
		r.line("💼 Supplier Cost Optimization:")
		r.line("   Suppliers compared: %d", suppliers.Len())

		if suppliers.Has("potential_savings") {
			savings := suppliers.Sum("potential_savings")
			total += savings
			r.line("   Potential savings: %s/month", money(savings))
		}

		better := suppliers.Filter(func(row table.Row) bool { return row.FloatOr("savings_vs_current", 0) > 0 })
		if !better.Empty() {
			r.blank()
			r.line("   Alternative suppliers with better pricing: %d", better.Len())

			for _, s := range better.Head(3).Rows() {
				r.line("   • %s: Save %s/month", s.StringOr("supplier_name", "N/A"), money(s.FloatOr("savings_vs_current", 0)))
			}
		}
	}

	if warehouses != nil {
		r.blank()
		r.line("🏭 Warehouse Optimization:")
		r.line("   Warehouses analyzed: %d", warehouses.Len())

		if avg, ok := warehouses.Mean("utilization_pct"); ok {
			r.line("   Average utilization: %.1f%%", avg)

			under := warehouses.Filter(func(row table.Row) bool {
				v, ok := row.Float("utilization_pct")
				return ok && v < 60
			})
			over := warehouses.Filter(func(row table.Row) bool {
				v, ok := row.Float("utilization_pct")
				return ok && v > 90
			})

			if !under.Empty() {
				r.line("   ⚠️ Underutilized warehouses: %d", under.Len())
			}

			if !over.Empty() {
				r.line("   ⚠️ Overutilized warehouses: %d", over.Len())
			}
		}

		if warehouses.Has("potential_savings") {
			savings := warehouses.Sum("potential_savings")
			total += savings
			r.line("   Potential savings: %s/month", money(savings))
		}
	}

	r.blank()
	r.line("%s", strings.Repeat("=", 40))
	r.line("💰 TOTAL POTENTIAL SAVINGS: %s/month", money(total))
	r.line("📅 Annual Savings Projection: %s", money(total*12))

	return r.String(), nil
}
