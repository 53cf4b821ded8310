package logistics

import (
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/tool"
)

// DistributionTools returns the distribution handler's tools.
func DistributionTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("detect_traffic_delays",
			"Detect traffic delays affecting deliveries and assess impact on SLAs. "+
				"Reads deliveries.csv and traffic_incidents.csv to identify delay impacts.",
			d.detectTrafficDelays),
		tool.NewTypedFunctionTool("reroute_delivery",
			"Find and recommend alternative routes for a delivery. "+
				"Reads alternative_routes.csv to provide rerouting options.",
			d.rerouteDelivery),
		tool.NewTypedFunctionTool("get_upcoming_deliveries",
			"Get information about upcoming deliveries and their SLA requirements. "+
				"Reads deliveries.csv and customer_sla.csv to assess delivery priorities.",
			d.getUpcomingDeliveries),
	}
}

func feasibility(score float64) string {
	switch {
	case score >= 0.8:
		return "✓ High"
	case score >= 0.6:
		return "⚡ Medium"
	default:
		return "⚠️ Low"
	}
}

func (d *Data) detectTrafficDelays(_ *core.ToolContext, in scenarioArgs) (any, error) {
	const name = "detect_traffic_delays"

	deliveries, err := d.Required(name, in.ScenarioDir, "deliveries.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Traffic Delay Impact Analysis")
	r.rule()
	r.line("Total active deliveries: %d", deliveries.Len())

	delayed := deliveries.Where("status", "DELAYED", "AT_RISK")
	if !delayed.Empty() {
		r.blank()
		r.line("⚠️ Delayed deliveries: %d", delayed.Len())
		r.blank()

		for _, delivery := range delayed.Rows() {
			r.line("🚚 Delivery %s:", delivery.StringOr("delivery_id", "N/A"))
			r.line("   Status: %s", delivery.StringOr("status", "N/A"))

			if delivery.Has("customer_id") {
				r.line("   Customer: %s", delivery.String("customer_id"))
			}

			if delivery.Has("priority") {
				r.line("   Priority: %s", delivery.String("priority"))
			}

			if delivery.Has("delay_minutes") {
				r.line("   Delay: %s minutes", delivery.String("delay_minutes"))
			}

			if delivery.Bool("sla_breach") {
				r.line("   🚨 SLA BREACH RISK")
			}

			r.blank()
		}
	}

	incidents, ok, err := d.Optional(name, in.ScenarioDir, "traffic_incidents.csv")
	if err != nil {
		return nil, err
	}

	if ok {
		r.line("Active traffic incidents: %d", incidents.Len())

		if critical := incidents.Where("severity", "HIGH", "CRITICAL"); !critical.Empty() {
			r.line("Critical incidents: %d", critical.Len())
		}
	}

	return r.String(), nil
}

func (d *Data) rerouteDelivery(_ *core.ToolContext, in rerouteArgs) (any, error) {
	const name = "reroute_delivery"

	deliveries, err := d.Required(name, in.ScenarioDir, "deliveries.csv")
	if err != nil {
		return nil, err
	}

	delivery, ok := first(deliveries.Where("delivery_id", in.DeliveryID))
	if !ok {
		return "Delivery " + in.DeliveryID + " not found", nil
	}

	r := newReport("Rerouting Options for Delivery " + in.DeliveryID)
	r.rule()
	r.line("Current Status: %s", delivery.StringOr("status", "N/A"))

	if delivery.Has("current_route") {
		r.line("Current Route: %s", delivery.String("current_route"))
	}

	if delivery.Has("destination") {
		r.line("Destination: %s", delivery.String("destination"))
	}

	alternatives, ok, err := d.Optional(name, in.ScenarioDir, "alternative_routes.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		r.blank()
		r.line("⚠️ No alternative routes data available")

		return r.String(), nil
	}

	if alternatives.Has("delivery_id") {
		alternatives = alternatives.Where("delivery_id", in.DeliveryID)
	}

	if alternatives.Empty() {
		r.blank()
		r.line("⚠️ No alternative routes available for this delivery")

		return r.String(), nil
	}

	r.blank()
	r.line("Available Alternative Routes: %d", alternatives.Len())
	r.blank()

	for i, route := range alternatives.Rows() {
		r.line("🛣️ Option %d:", i+1)

		if route.Has("route_id") {
			r.line("   Route ID: %s", route.String("route_id"))
		}

		if route.Has("estimated_time") {
			r.line("   Estimated Time: %s min", route.String("estimated_time"))
		}

		if route.Has("distance_km") {
			r.line("   Distance: %s km", route.String("distance_km"))
		}

		if score, ok := route.Float("feasibility_score"); ok {
			r.line("   Feasibility: %s (%.2f)", feasibility(score), score)
		}

		if route.Has("traffic_conditions") {
			r.line("   Traffic: %s", route.String("traffic_conditions"))
		}

		r.blank()
	}

	return r.String(), nil
}

func (d *Data) getUpcomingDeliveries(_ *core.ToolContext, in scenarioArgs) (any, error) {
	const name = "get_upcoming_deliveries"

	deliveries, err := d.Required(name, in.ScenarioDir, "deliveries.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Upcoming Deliveries Overview")
	r.rule()
	r.line("Total deliveries: %d", deliveries.Len())

	if deliveries.Has("status") {
		r.blank()
		r.line("Delivery Status:")
		r.counts(deliveries.CountBy("status"))
	}

	if urgent := deliveries.Where("priority", "HIGH", "CRITICAL"); !urgent.Empty() {
		r.blank()
		r.line("🎯 High Priority Deliveries: %d", urgent.Len())
		r.blank()

		for _, delivery := range urgent.Head(10).Rows() {
			r.WriteString("📦 " + delivery.StringOr("delivery_id", "N/A") + ": " +
				delivery.StringOr("priority", "N/A") + " priority, Status: " + delivery.StringOr("status", "N/A"))

			if delivery.Has("time_window_end") {
				r.WriteString(", Due: " + delivery.String("time_window_end"))
			}

			if delivery.Bool("sla_breach") {
				r.WriteString(" 🚨 SLA BREACH")
			}

			r.blank()
		}
	}

	sla, ok, err := d.Optional(name, in.ScenarioDir, "customer_sla.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return r.String(), nil
	}

	r.blank()
	r.line("📋 Customer SLA Summary:")
	r.line("Customers tracked: %d", sla.Len())

	if breaches := sla.Where("sla_status", "BREACH"); !breaches.Empty() {
		r.blank()
		r.line("🚨 SLA Breaches: %d", breaches.Len())

		for _, customer := range breaches.Rows() {
			r.WriteString("   • Customer " + customer.StringOr("customer_id", "N/A") + ": ")

			if customer.Has("customer_tier") {
				r.WriteString(customer.String("customer_tier") + " tier, ")
			}

			if customer.Has("penalty_amount") {
				r.WriteString("Penalty: $" + customer.String("penalty_amount"))
			}

			r.blank()
		}
	}

	return r.String(), nil
}
