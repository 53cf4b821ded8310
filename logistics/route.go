package logistics

import (
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/internal/table"
	"github.com/hupe1980/logimesh/tool"
)

// RouteTools returns the route planner's tools.
func RouteTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("optimize_routes",
			"Optimize routes based on current traffic conditions and vehicle availability. "+
				"Reads routes.csv, vehicles.csv and traffic_data.csv to provide route optimization recommendations.",
			d.optimizeRoutes),
		tool.NewTypedFunctionTool("assign_vehicle_to_route",
			"Assign a vehicle to a specific route. Checks vehicle availability and capacity against the route requirements.",
			d.assignVehicleToRoute),
		tool.NewTypedFunctionTool("check_traffic_conditions",
			"Check current traffic conditions and incidents affecting routes. "+
				"Reads traffic_data.csv and traffic_incidents.csv to identify delays and disruptions.",
			d.checkTrafficConditions),
	}
}

func (d *Data) optimizeRoutes(_ *core.ToolContext, in scenarioArgs) (any, error) {
	const name = "optimize_routes"

	routes, err := d.Required(name, in.ScenarioDir, "routes.csv")
	if err != nil {
		return nil, err
	}

	vehicles, hasVehicles, err := d.Optional(name, in.ScenarioDir, "vehicles.csv")
	if err != nil {
		return nil, err
	}

	traffic, hasTraffic, err := d.Optional(name, in.ScenarioDir, "traffic_data.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Route Optimization Analysis")
	r.line("Total routes: %d", routes.Len())

	if routes.Has("status") {
		r.blank()
		r.line("Route Status Distribution:")
		r.counts(routes.CountBy("status"))

		problems := routes.Where("status", "DELAYED", "BLOCKED", "REROUTE_NEEDED")
		if !problems.Empty() {
			r.blank()
			r.line("⚠️ Routes requiring attention: %d", problems.Len())

			for _, route := range problems.Rows() {
				r.WriteString("  - Route " + route.StringOr("route_id", "N/A") + ": " + route.StringOr("status", "N/A"))
				if route.Has("delay_minutes") {
					r.WriteString(" (Delay: " + route.String("delay_minutes") + " min)")
				}

				r.blank()
			}
		}
	}

	if hasVehicles && vehicles.Has("status") {
		r.blank()
		r.line("Available vehicles for reassignment: %d", vehicles.Where("status", "AVAILABLE").Len())
	} else if !hasVehicles {
		r.blank()
		r.line("No vehicle data available (vehicles.csv missing)")
	}

	if hasTraffic {
		r.blank()
		r.line("Traffic incidents affecting routes: %d", traffic.Len())
	}

	return r.String(), nil
}

func (d *Data) assignVehicleToRoute(_ *core.ToolContext, in vehicleAssignmentArgs) (any, error) {
	const name = "assign_vehicle_to_route"

	vehicles, err := d.Required(name, in.ScenarioDir, "vehicles.csv")
	if err != nil {
		return nil, err
	}

	routes, err := d.Required(name, in.ScenarioDir, "routes.csv")
	if err != nil {
		return nil, err
	}

	vehicle, ok := first(vehicles.Where("vehicle_id", in.VehicleID))
	if !ok {
		return "Vehicle " + in.VehicleID + " not found", nil
	}

	route, ok := first(routes.Where("route_id", in.RouteID))
	if !ok {
		return "Route " + in.RouteID + " not found", nil
	}

	status := vehicle.String("status")
	if status != "AVAILABLE" && status != "EN_ROUTE" {
		return "⚠️ Vehicle " + in.VehicleID + " is " + status + " and may not be suitable for immediate assignment", nil
	}

	r := &report{}
	r.line("✓ Vehicle Assignment Recommendation:")
	r.line("  Vehicle: %s (%s)", in.VehicleID, vehicle.StringOr("type", "N/A"))
	r.line("  Current Status: %s", vehicle.StringOr("status", "N/A"))
	r.line("  Location: %s", vehicle.StringOr("current_location", "N/A"))
	r.line("  Route: %s", in.RouteID)
	r.line("  Route Status: %s", route.StringOr("status", "N/A"))

	capacity, okCap := vehicle.Float("capacity")
	load, okLoad := route.Float("estimated_load")

	if okCap && okLoad {
		if capacity >= load {
			r.line("  Capacity Check: ✓ Sufficient (%s >= %s)", vehicle.String("capacity"), route.String("estimated_load"))
		} else {
			r.line("  Capacity Check: ⚠️ Insufficient (%s < %s)", vehicle.String("capacity"), route.String("estimated_load"))
		}
	}

	return r.String(), nil
}

func (d *Data) checkTrafficConditions(_ *core.ToolContext, in scenarioArgs) (any, error) {
	const name = "check_traffic_conditions"

	traffic, hasTraffic, err := d.Optional(name, in.ScenarioDir, "traffic_data.csv")
	if err != nil {
		return nil, err
	}

	incidents, hasIncidents, err := d.Optional(name, in.ScenarioDir, "traffic_incidents.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Traffic Conditions Analysis")

	if hasTraffic {
		r.blank()
		r.line("Traffic Data Points: %d", traffic.Len())

		if traffic.Has("route_id", "delay_minutes") {
			avg, _ := traffic.Mean("delay_minutes")
			r.line("Total delay across all routes: %s minutes", whole(traffic.Sum("delay_minutes")))
			r.line("Average delay per route: %.1f minutes", avg)
		}
	}

	if hasIncidents {
		r.blank()
		r.line("⚠️ Active Traffic Incidents: %d", incidents.Len())

		if incidents.Has("severity") {
			r.blank()
			r.line("Incident Severity:")
			r.counts(incidents.CountBy("severity"))

			critical := incidents.Where("severity", "HIGH", "CRITICAL")
			if !critical.Empty() {
				r.blank()
				r.line("🚨 Critical Incidents:")

				for _, incident := range critical.Head(5).Rows() {
					r.WriteString("  - " + incident.StringOr("incident_type", "N/A") + " on Route " + incident.StringOr("affected_route", "N/A"))
					if incident.Has("estimated_delay") {
						r.WriteString(" (Est. delay: " + incident.String("estimated_delay") + " min)")
					}

					r.blank()
				}
			}
		}
	}

	if !hasTraffic && !hasIncidents {
		r.blank()
		r.line("No traffic data available for this scenario")
	}

	return r.String(), nil
}

// first returns the first row of t.
func first(t *table.Table) (table.Row, bool) {
	if t.Empty() {
		return table.Row{}, false
	}

	return t.Row(0), true
}
