package logistics

type scenarioArgs struct {
	ScenarioDir string `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
}

type productArgs struct {
	ScenarioDir string `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
	ProductID   string `json:"product_id,omitempty" description:"Product ID to analyze; all products when omitted"`
}

type vehicleAssignmentArgs struct {
	ScenarioDir string `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
	VehicleID   string `json:"vehicle_id" description:"Vehicle ID to assign"`
	RouteID     string `json:"route_id" description:"Route ID to assign the vehicle to"`
}

type purchaseOrderArgs struct {
	ScenarioDir string `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
	SupplierID  string `json:"supplier_id" description:"Supplier ID to place the order with"`
	ProductID   string `json:"product_id" description:"Product ID to order"`
	Quantity    int    `json:"quantity" description:"Quantity to order"`
}

type rerouteArgs struct {
	ScenarioDir string `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
	DeliveryID  string `json:"delivery_id" description:"Delivery ID to reroute"`
}

type roiArgs struct {
	ScenarioDir      string  `json:"scenario_dir" description:"Scenario directory name (e.g. 'scenario_2_route_disruption')"`
	InvestmentAmount float64 `json:"investment_amount" description:"Investment amount to calculate ROI for"`
	ExpectedSavings  float64 `json:"expected_savings" description:"Expected monthly savings from the investment"`
}
