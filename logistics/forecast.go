package logistics

import (
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/tool"
)

const spikeThresholdPct = 20

// ForecastTools returns the demand forecaster's tools.
func ForecastTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("predict_demand_spike",
			"Predict demand spikes for products based on forecasting models. "+
				"Reads demand_forecast.csv to identify products with predicted demand increases.",
			d.predictDemandSpike),
		tool.NewTypedFunctionTool("get_demand_forecast",
			"Get comprehensive demand forecast for all products. "+
				"Reads demand_forecast.csv to provide overall demand predictions.",
			d.getDemandForecast),
		tool.NewTypedFunctionTool("analyze_historical_trends",
			"Analyze historical demand trends to understand patterns and seasonality. "+
				"Reads historical_demand.csv to identify demand patterns.",
			d.analyzeHistoricalTrends),
	}
}

// changeColumn returns the demand change column present in t.
func changeColumn(t *table.Table) (string, bool) {
	for _, col := range []string{"predicted_demand_change_pct", "demand_change_pct"} {
		if t.Has(col) {
			return col, true
		}
	}

	return "", false
}

func spikeUrgency(pct float64) string {
	switch {
	case pct >= 100:
		return "🚨 CRITICAL"
	case pct >= 50:
		return "⚠️ HIGH"
	default:
		return "⚡ MODERATE"
	}
}

func trendIndicator(pct float64) string {
	switch {
	case pct > 10:
		return "📈 Upward"
	case pct < -10:
		return "📉 Downward"
	default:
		return "➡️ Stable"
	}
}

func (d *Data) predictDemandSpike(_ *core.ToolContext, in productArgs) (any, error) {
	forecast, ok, err := d.Optional("predict_demand_spike", in.ScenarioDir, "demand_forecast.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return "No demand forecast data available for this scenario", nil
	}

	if in.ProductID != "" {
		forecast = forecast.Where("product_id", in.ProductID)
		if forecast.Empty() {
			return "No forecast data for product " + in.ProductID, nil
		}
	}

	r := newReport("Demand Spike Predictions")
	r.rule()

	col, hasChange := changeColumn(forecast)

	spikes := forecast
	if hasChange {
		spikes = forecast.Filter(func(row table.Row) bool {
			pct, ok := row.Float(col)
			return ok && pct > spikeThresholdPct
		})
	}

	if spikes.Empty() {
		r.line("No significant demand spikes predicted")
		return r.String(), nil
	}

	r.line("Products with significant demand increases: %d", spikes.Len())
	r.blank()

	for _, item := range spikes.Rows() {
		r.line("📈 Product %s:", item.StringOr("product_id", "N/A"))

		if v, ok := item.Float("current_demand"); ok {
			r.line("   Current Demand: %s units/day", whole(v))
		}

		if v, ok := item.Float("predicted_demand"); ok {
			r.line("   Predicted Demand: %s units/day", whole(v))
		}

		pct := 0.0
		if hasChange {
			pct = item.FloatOr(col, 0)
		}

		r.line("   Increase: %+.1f%% %s", pct, spikeUrgency(pct))

		if v, ok := item.Float("confidence"); ok {
			r.line("   Confidence: %.1f%%", v*100)
		}

		if item.Has("spike_reason") {
			r.line("   Reason: %s", item.String("spike_reason"))
		}

		if item.Has("forecast_horizon_days") {
			r.line("   Timeframe: %s days", item.String("forecast_horizon_days"))
		}

		r.blank()
	}

	return r.String(), nil
}

func (d *Data) getDemandForecast(_ *core.ToolContext, in scenarioArgs) (any, error) {
	forecast, ok, err := d.Optional("get_demand_forecast", in.ScenarioDir, "demand_forecast.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return "No demand forecast data available for this scenario", nil
	}

	r := newReport("Demand Forecast Overview")
	r.rule()
	r.line("Products tracked: %d", forecast.Len())

	predicted := forecast.Sum("predicted_demand")
	if forecast.Has("predicted_demand") {
		r.line("Total predicted demand: %s units", whole(predicted))
	}

	if forecast.Has("current_demand") {
		current := forecast.Sum("current_demand")
		r.line("Current demand: %s units", whole(current))

		if forecast.Has("predicted_demand") && current > 0 {
			r.line("Overall demand change: %+.1f%%", percentChange(current, predicted))
		}
	}

	if avg, ok := forecast.Mean("confidence"); ok {
		r.line("Average forecast confidence: %.1f%%", avg*100)
	}

	col, ok := changeColumn(forecast)
	if !ok {
		return r.String(), nil
	}

	var increasing, stable, decreasing int

	for _, pct := range forecast.Floats(col) {
		switch {
		case pct > 10:
			increasing++
		case pct < -10:
			decreasing++
		default:
			stable++
		}
	}

	r.blank()
	r.line("📊 Forecast Distribution:")
	r.line("   Increasing demand: %d products", increasing)
	r.line("   Stable demand: %d products", stable)
	r.line("   Decreasing demand: %d products", decreasing)

	r.blank()
	r.line("🔝 Top 5 Demand Increases:")

	for _, item := range forecast.SortBy(col, true).Head(5).Rows() {
		if pct, ok := item.Float(col); ok {
			r.line("   • %s: %+.1f%%", item.StringOr("product_id", "N/A"), pct)
		}
	}

	return r.String(), nil
}

func (d *Data) analyzeHistoricalTrends(_ *core.ToolContext, in scenarioArgs) (any, error) {
	history, ok, err := d.Optional("analyze_historical_trends", in.ScenarioDir, "historical_demand.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return "No historical demand data available for this scenario", nil
	}

	r := newReport("Historical Demand Trend Analysis")
	r.rule()

	if history.Has("date") {
		r.line("Data points: %d", history.Len())
		r.line("Period: %s to %s", history.Min("date"), history.Max("date"))
	}

	if !history.Has("product_id") {
		if history.Has("demand") {
			avg, _ := history.Mean("demand")
			r.line("Total demand over period: %s", whole(history.Sum("demand")))
			r.line("Average demand: %.1f", avg)
		}

		return r.String(), nil
	}

	products := history.Unique("product_id")
	r.line("Products tracked: %d", len(products))
	r.blank()

	if len(products) > 10 {
		products = products[:10]
	}

	for _, product := range products {
		rows := history.Where("product_id", product)
		if !rows.Has("demand") || rows.Len() < 2 {
			continue
		}

		r.line("📊 Product %s:", product)

		firstDemand := rows.Row(0).FloatOr("demand", 0)
		lastDemand := rows.Row(rows.Len()-1).FloatOr("demand", 0)

		if firstDemand > 0 {
			trend := percentChange(firstDemand, lastDemand)
			r.line("   Trend: %s (%+.1f%%)", trendIndicator(trend), trend)
		}

		avg, _ := rows.Mean("demand")
		r.line("   Average Demand: %.1f units", avg)

		if rows.Len() > 2 {
			if std, ok := rows.Std("demand"); ok {
				r.line("   Volatility (std dev): %.1f", std)
			}
		}

		r.blank()
	}

	return r.String(), nil
}
