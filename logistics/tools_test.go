package logistics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/logging"
	"github.com/hupe1980/logimesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = "scenario_9_test"

func newTestData(t *testing.T, files map[string]string) *Data {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, testScenario)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return NewData(root)
}

func callTool(t *testing.T, d *Data, name string, args map[string]any) (string, error) {
	t.Helper()

	if _, ok := args["scenario_dir"]; !ok {
		args["scenario_dir"] = testScenario
	}

	for _, tl := range AllTools(d) {
		if tl.Name() != name {
			continue
		}

		tc := core.NewToolContext(context.Background(), core.AgentInfo{Name: "test", Type: core.AgentTypeWorker}, "call-1", logging.NoOpLogger{})

		out, err := tl.Call(tc, args)
		if err != nil {
			return "", err
		}

		s, ok := out.(string)
		require.True(t, ok)

		return s, nil
	}

	t.Fatalf("tool %s not registered", name)

	return "", nil
}

func mustCall(t *testing.T, d *Data, name string, args map[string]any) string {
	t.Helper()

	out, err := callTool(t, d, name, args)
	require.NoError(t, err)

	return out
}

func requireToolError(t *testing.T, err error, code string) {
	t.Helper()

	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, code, toolErr.Code)
}

func TestAllTools_Names(t *testing.T) {
	var names []string
	for _, tl := range AllTools(NewData(t.TempDir())) {
		names = append(names, tl.Name())
	}

	assert.Equal(t, []string{
		"optimize_routes", "assign_vehicle_to_route", "check_traffic_conditions",
		"check_supplier_status", "place_purchase_order", "predict_supplier_delays",
		"check_stock_levels", "predict_inventory_shortage", "update_reorder_points",
		"detect_traffic_delays", "reroute_delivery", "get_upcoming_deliveries",
		"predict_demand_spike", "get_demand_forecast", "analyze_historical_trends",
		"analyze_financial_costs", "calculate_roi", "identify_cost_savings",
	}, names)
}

func TestData_ScenarioValidation(t *testing.T) {
	d := newTestData(t, nil)

	for _, dir := range []string{"", "..", "../etc", "a/b", `a\b`, "/tmp"} {
		_, err := callTool(t, d, "check_stock_levels", map[string]any{"scenario_dir": dir})
		requireToolError(t, err, tool.CodeValidation)
	}

	_, err := callTool(t, d, "check_stock_levels", map[string]any{"scenario_dir": "scenario_missing"})
	requireToolError(t, err, tool.CodeNotFound)

	_, err = callTool(t, d, "check_stock_levels", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory.csv not found in "+testScenario)
	requireToolError(t, err, tool.CodeNotFound)
}

func TestData_MissingArgument(t *testing.T) {
	d := newTestData(t, nil)

	_, err := callTool(t, d, "reroute_delivery", map[string]any{})
	requireToolError(t, err, tool.CodeValidation)
}

const routesCSV = `route_id,status,delay_minutes,estimated_load
R1,ON_TIME,0,500
R2,DELAYED,45,800
`

const vehiclesCSV = `vehicle_id,type,status,current_location,capacity
V1,TRUCK,AVAILABLE,Depot A,1000
V2,VAN,MAINTENANCE,Depot B,400
`

func TestRouteTools(t *testing.T) {
	d := newTestData(t, map[string]string{
		"routes.csv":   routesCSV,
		"vehicles.csv": vehiclesCSV,
		"traffic_incidents.csv": `incident_id,incident_type,affected_route,severity,estimated_delay
I1,ACCIDENT,R2,CRITICAL,60
I2,ROADWORK,R1,LOW,5
`,
	})

	out := mustCall(t, d, "optimize_routes", map[string]any{})
	assert.Contains(t, out, "Total routes: 2")
	assert.Contains(t, out, "  DELAYED: 1")
	assert.Contains(t, out, "  - Route R2: DELAYED (Delay: 45 min)")
	assert.Contains(t, out, "Available vehicles for reassignment: 1")
	assert.NotContains(t, out, "Traffic incidents affecting routes")

	out = mustCall(t, d, "assign_vehicle_to_route", map[string]any{"vehicle_id": "V1", "route_id": "R2"})
	assert.Contains(t, out, "Vehicle: V1 (TRUCK)")
	assert.Contains(t, out, "Capacity Check: ✓ Sufficient (1000 >= 800)")

	out = mustCall(t, d, "assign_vehicle_to_route", map[string]any{"vehicle_id": "V2", "route_id": "R2"})
	assert.Equal(t, "⚠️ Vehicle V2 is MAINTENANCE and may not be suitable for immediate assignment", out)

	assert.Equal(t, "Vehicle V9 not found", mustCall(t, d, "assign_vehicle_to_route", map[string]any{"vehicle_id": "V9", "route_id": "R1"}))
	assert.Equal(t, "Route R9 not found", mustCall(t, d, "assign_vehicle_to_route", map[string]any{"vehicle_id": "V1", "route_id": "R9"}))

	out = mustCall(t, d, "check_traffic_conditions", map[string]any{})
	assert.Contains(t, out, "Active Traffic Incidents: 2")
	assert.Contains(t, out, "  - ACCIDENT on Route R2 (Est. delay: 60 min)")
	assert.NotContains(t, out, "ROADWORK on")
}

func TestCheckTrafficConditions_NoData(t *testing.T) {
	d := newTestData(t, nil)

	out := mustCall(t, d, "check_traffic_conditions", map[string]any{})
	assert.Contains(t, out, "No traffic data available for this scenario")
}

const suppliersCSV = `supplier_id,supplier_name,status,issue_type,lead_time_days,reliability_score,unit_price
S1,Acme,ACTIVE,,5,0.9,12.5
S2,Globex,DELAYED,Port strike,10,0.6,10
`

func TestProcurementTools(t *testing.T) {
	d := newTestData(t, map[string]string{
		"suppliers.csv": suppliersCSV,
		"products.csv":  "product_id,product_name\nP1,Widget\n",
	})

	out := mustCall(t, d, "check_supplier_status", map[string]any{})
	assert.Contains(t, out, "Total suppliers: 2")
	assert.Contains(t, out, "  - Globex (ID: S2): DELAYED - Port strike")
	assert.Contains(t, out, "Average lead time: 7.5 days")
	assert.Contains(t, out, "Average reliability score: 0.75")

	out = mustCall(t, d, "place_purchase_order", map[string]any{"supplier_id": "S1", "product_id": "P1", "quantity": 100})
	assert.Contains(t, out, "Product: Widget")
	assert.Contains(t, out, "Unit Price: $12.50")
	assert.Contains(t, out, "Total Cost: $1,250.00")
	assert.NotContains(t, out, "WARNING")

	out = mustCall(t, d, "place_purchase_order", map[string]any{"supplier_id": "S2", "product_id": "P7", "quantity": 10})
	assert.Contains(t, out, "Product: P7")
	assert.Contains(t, out, "⚠️ WARNING: Supplier status is DELAYED. Consider alternative suppliers.")

	assert.Equal(t, "Supplier S9 not found", mustCall(t, d, "place_purchase_order", map[string]any{"supplier_id": "S9", "product_id": "P1", "quantity": 1}))

	_, err := callTool(t, d, "place_purchase_order", map[string]any{"supplier_id": "S1", "product_id": "P1", "quantity": 0})
	requireToolError(t, err, tool.CodeValidation)

	assert.Equal(t, "No purchase orders data available for this scenario", mustCall(t, d, "predict_supplier_delays", map[string]any{}))
}

func TestPredictSupplierDelays(t *testing.T) {
	d := newTestData(t, map[string]string{
		"purchase_orders.csv": `po_id,product_id,supplier_id,status,quantity,expected_delivery
PO1,P1,S1,DELAYED,100,2024-05-01
PO2,P2,S2,AT_RISK,50,2024-05-03
PO3,P3,S1,DELIVERED,70,2024-04-20
`,
	})

	out := mustCall(t, d, "predict_supplier_delays", map[string]any{})
	assert.Contains(t, out, "Total purchase orders: 3")
	assert.Contains(t, out, "⚠️ Orders at risk: 2")
	assert.Contains(t, out, "  - PO PO1: P1 from S1 - DELAYED (Expected: 2024-05-01)")
	assert.Contains(t, out, "Total quantity at risk of delay: 150")
}

const inventoryCSV = `product_id,current_stock,reorder_point,unit_value,priority,days_until_stockout,daily_demand,lead_time_days
P1,10,50,2.5,CRITICAL,2,5,7
P2,100,50,1000,LOW,40,2,5
`

func TestInventoryTools(t *testing.T) {
	d := newTestData(t, map[string]string{"inventory.csv": inventoryCSV})

	out := mustCall(t, d, "check_stock_levels", map[string]any{})
	assert.Contains(t, out, "Total products tracked: 2")
	assert.Contains(t, out, "Total units in stock: 110")
	assert.Contains(t, out, "⚠️ Products below reorder point: 1")
	assert.Contains(t, out, "  • Product P1: Stock=10, Reorder Point=50, Priority=CRITICAL")
	assert.Contains(t, out, "⏱️ Days until stockout: 2")
	assert.Contains(t, out, "Total inventory value: $100,025.00")

	out = mustCall(t, d, "predict_inventory_shortage", map[string]any{})
	assert.Contains(t, out, "Products at risk of shortage: 1")
	assert.Contains(t, out, "Days Until Stockout: 2 🚨 CRITICAL")
	assert.NotContains(t, out, "Product P2")

	assert.Equal(t, "Product P9 not found in inventory", mustCall(t, d, "predict_inventory_shortage", map[string]any{"product_id": "P9"}))

	out = mustCall(t, d, "predict_inventory_shortage", map[string]any{"product_id": "P2"})
	assert.Contains(t, out, "✓ No immediate shortage risks detected")

	out = mustCall(t, d, "update_reorder_points", map[string]any{})
	assert.Contains(t, out, "Recommended Reorder Point Adjustments: 1")
	assert.Contains(t, out, "📊 Product P2:")
	assert.Contains(t, out, "   Recommended: 16")
	assert.Contains(t, out, "   Change: -68.0%")
	assert.Contains(t, out, "   Priority: LOW")
}

func TestInventoryTools_AllHealthy(t *testing.T) {
	d := newTestData(t, map[string]string{"inventory.csv": "product_id,current_stock,reorder_point,daily_demand\nP1,100,50,5\n"})

	assert.Contains(t, mustCall(t, d, "check_stock_levels", map[string]any{}), "✓ All products above reorder point")
	assert.Contains(t, mustCall(t, d, "update_reorder_points", map[string]any{}), "✓ Current reorder points are appropriately set")
}

const deliveriesCSV = `delivery_id,customer_id,status,priority,delay_minutes,sla_breach,current_route,destination,time_window_end
D1,C1,DELAYED,HIGH,30,true,R2,Berlin,14:00
D2,C2,ON_TIME,LOW,0,false,R1,Hamburg,16:00
`

func TestDistributionTools(t *testing.T) {
	d := newTestData(t, map[string]string{
		"deliveries.csv": deliveriesCSV,
		"alternative_routes.csv": `delivery_id,route_id,estimated_time,distance_km,feasibility_score,traffic_conditions
D1,ALT1,50,40,0.85,LIGHT
D1,ALT2,70,55,0.5,HEAVY
`,
		"customer_sla.csv": `customer_id,customer_tier,sla_status,penalty_amount
C1,PREMIUM,BREACH,500
C2,STANDARD,OK,0
`,
		"traffic_incidents.csv": "incident_id,severity\nI1,HIGH\n",
	})

	out := mustCall(t, d, "detect_traffic_delays", map[string]any{})
	assert.Contains(t, out, "Total active deliveries: 2")
	assert.Contains(t, out, "⚠️ Delayed deliveries: 1")
	assert.Contains(t, out, "   Delay: 30 minutes")
	assert.Contains(t, out, "🚨 SLA BREACH RISK")
	assert.Contains(t, out, "Active traffic incidents: 1")
	assert.Contains(t, out, "Critical incidents: 1")

	out = mustCall(t, d, "reroute_delivery", map[string]any{"delivery_id": "D1"})
	assert.Contains(t, out, "Current Route: R2")
	assert.Contains(t, out, "Available Alternative Routes: 2")
	assert.Contains(t, out, "🛣️ Option 2:")
	assert.Contains(t, out, "Feasibility: ✓ High (0.85)")
	assert.Contains(t, out, "Feasibility: ⚠️ Low (0.50)")

	assert.Contains(t, mustCall(t, d, "reroute_delivery", map[string]any{"delivery_id": "D2"}), "No alternative routes available for this delivery")
	assert.Equal(t, "Delivery D9 not found", mustCall(t, d, "reroute_delivery", map[string]any{"delivery_id": "D9"}))

	out = mustCall(t, d, "get_upcoming_deliveries", map[string]any{})
	assert.Contains(t, out, "📦 D1: HIGH priority, Status: DELAYED, Due: 14:00 🚨 SLA BREACH")
	assert.Contains(t, out, "Customers tracked: 2")
	assert.Contains(t, out, "   • Customer C1: PREMIUM tier, Penalty: $500")
}

func TestRerouteDelivery_NoAlternativesFile(t *testing.T) {
	d := newTestData(t, map[string]string{"deliveries.csv": deliveriesCSV})

	assert.Contains(t, mustCall(t, d, "reroute_delivery", map[string]any{"delivery_id": "D1"}), "No alternative routes data available")
}

func TestRerouteDelivery_PercentInID(t *testing.T) {
	d := newTestData(t, map[string]string{
		"deliveries.csv": "delivery_id,status,current_route\nD%d1,DELAYED,R2%s\n",
	})

	out := mustCall(t, d, "reroute_delivery", map[string]any{"delivery_id": "D%d1"})
	assert.True(t, strings.HasPrefix(out, "Rerouting Options for Delivery D%d1:\n"), out)
	assert.Contains(t, out, "Current Route: R2%s")
	assert.NotContains(t, out, "%!")
}

const forecastCSV = `product_id,current_demand,predicted_demand,predicted_demand_change_pct,confidence,spike_reason,forecast_horizon_days
P1,100,250,150,0.85,Promotion,7
P2,50,55,10,0.9,,14
P3,80,40,-50,0.7,,14
`

func TestForecastTools(t *testing.T) {
	d := newTestData(t, map[string]string{
		"demand_forecast.csv": forecastCSV,
		"historical_demand.csv": `date,product_id,demand
2024-01-01,P1,100
2024-01-02,P1,110
2024-01-03,P1,150
2024-01-01,P2,50
`,
	})

	out := mustCall(t, d, "predict_demand_spike", map[string]any{})
	assert.Contains(t, out, "Products with significant demand increases: 1")
	assert.Contains(t, out, "   Current Demand: 100 units/day")
	assert.Contains(t, out, "   Increase: +150.0% 🚨 CRITICAL")
	assert.Contains(t, out, "   Confidence: 85.0%")
	assert.Contains(t, out, "   Reason: Promotion")
	assert.Contains(t, out, "   Timeframe: 7 days")

	assert.Contains(t, mustCall(t, d, "predict_demand_spike", map[string]any{"product_id": "P2"}), "No significant demand spikes predicted")
	assert.Equal(t, "No forecast data for product P9", mustCall(t, d, "predict_demand_spike", map[string]any{"product_id": "P9"}))

	out = mustCall(t, d, "get_demand_forecast", map[string]any{})
	assert.Contains(t, out, "Products tracked: 3")
	assert.Contains(t, out, "Total predicted demand: 345 units")
	assert.Contains(t, out, "Overall demand change: +50.0%")
	assert.Contains(t, out, "Average forecast confidence: 81.7%")
	assert.Contains(t, out, "   Increasing demand: 1 products")
	assert.Contains(t, out, "   Stable demand: 1 products")
	assert.Contains(t, out, "   Decreasing demand: 1 products")
	assert.Contains(t, out, "   • P1: +150.0%")

	out = mustCall(t, d, "analyze_historical_trends", map[string]any{})
	assert.Contains(t, out, "Period: 2024-01-01 to 2024-01-03")
	assert.Contains(t, out, "Products tracked: 2")
	assert.Contains(t, out, "   Trend: 📈 Upward (+50.0%)")
	assert.Contains(t, out, "   Average Demand: 120.0 units")
	assert.Contains(t, out, "   Volatility (std dev): 26.5")
	assert.NotContains(t, out, "Product P2:")
}

func TestForecastTools_NoData(t *testing.T) {
	d := newTestData(t, nil)

	assert.Equal(t, "No demand forecast data available for this scenario", mustCall(t, d, "predict_demand_spike", map[string]any{}))
	assert.Equal(t, "No demand forecast data available for this scenario", mustCall(t, d, "get_demand_forecast", map[string]any{}))
	assert.Equal(t, "No historical demand data available for this scenario", mustCall(t, d, "analyze_historical_trends", map[string]any{}))
}

func TestCostTools(t *testing.T) {
	d := newTestData(t, map[string]string{
		"cost_analysis.csv": `category,actual_cost,budgeted_cost,potential_savings
Fuel,1200,1000,150
Labor,900,1000,0
`,
		"route_efficiency.csv": `route_id,potential_savings,optimization_suggestion
R1,500,Consolidate stops
R2,250,
`,
		"warehouse_utilization.csv": `warehouse_id,utilization_pct,potential_savings
W1,50,1000
W2,95,0
`,
	})

	out := mustCall(t, d, "analyze_financial_costs", map[string]any{})
	assert.Contains(t, out, "Total Actual Costs: $2,100.00")
	assert.Contains(t, out, "💰 Budget Overrun: $100.00 (+5.0%)")
	assert.Contains(t, out, "   Variance: +20.0% 🚨 Over Budget")
	assert.Contains(t, out, "   Variance: -10.0% ✓ On Track")
	assert.Contains(t, out, "   💡 Potential Savings: $150.00")
	assert.Contains(t, out, "💰 Total Potential Savings: $150.00")

	out = mustCall(t, d, "identify_cost_savings", map[string]any{})
	assert.Contains(t, out, "   Routes analyzed: 2")
	assert.Contains(t, out, "   • Route R1: Consolidate stops (Save: $500.00/month)")
	assert.NotContains(t, out, "Route R2:")
	assert.NotContains(t, out, "Supplier Cost Optimization")
	assert.Contains(t, out, "   Average utilization: 72.5%")
	assert.Contains(t, out, "   ⚠️ Underutilized warehouses: 1")
	assert.Contains(t, out, "   ⚠️ Overutilized warehouses: 1")
	assert.Contains(t, out, "💰 TOTAL POTENTIAL SAVINGS: $1,750.00/month")
	assert.Contains(t, out, "📅 Annual Savings Projection: $21,000.00")
}

func TestCalculateROI(t *testing.T) {
	d := newTestData(t, nil)

	out := mustCall(t, d, "calculate_roi", map[string]any{"investment_amount": 12000, "expected_savings": 2000})
	assert.Contains(t, out, "Expected Annual Savings: $24,000.00")
	assert.Contains(t, out, "   ROI (1 year): +100.0%")
	assert.Contains(t, out, "   Payback Period: 6.0 months")
	assert.Contains(t, out, "   Assessment: 🟢 Excellent - Quick payback")
	assert.Contains(t, out, "   Total Savings: $72,000.00")
	assert.Contains(t, out, "   ROI: +500.0%")

	out = mustCall(t, d, "calculate_roi", map[string]any{"investment_amount": 5000, "expected_savings": 0})
	assert.Contains(t, out, "   Payback Period: Not achievable with current savings")
	assert.Contains(t, out, "   Assessment: 🔴 Not recommended")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$1,234.50", money(1234.5))
	assert.Equal(t, "-$99.99", money(-99.99))
}
