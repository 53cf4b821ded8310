package logistics

import (
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/tool"
)

// ProcurementTools returns the procurement manager's tools.
func ProcurementTools(d *Data) []tool.Tool {
	return []tool.Tool{
		tool.NewTypedFunctionTool("check_supplier_status",
			"Check the status of all suppliers including availability, lead times, and any issues. "+
				"Reads suppliers.csv to provide a supplier status overview.",
			d.checkSupplierStatus),
		tool.NewTypedFunctionTool("place_purchase_order",
			"Create a purchase order recommendation with a specific supplier for a product. "+
				"Analyzes supplier data to provide ordering recommendations.",
			d.placePurchaseOrder),
		tool.NewTypedFunctionTool("predict_supplier_delays",
			"Predict potential supplier delays by analyzing purchase orders and supplier performance. "+
				"Reads purchase_orders.csv to identify at-risk orders.",
			d.predictSupplierDelays),
	}
}

func (d *Data) checkSupplierStatus(_ *core.ToolContext, in scenarioArgs) (any, error) {
	suppliers, err := d.Required("check_supplier_status", in.ScenarioDir, "suppliers.csv")
	if err != nil {
		return nil, err
	}

	r := newReport("Supplier Status Analysis")
	r.line("Total suppliers: %d", suppliers.Len())

	if suppliers.Has("status") {
		r.blank()
		r.line("Supplier Status Distribution:")
		r.counts(suppliers.CountBy("status"))

		problems := suppliers.Where("status", "CRITICAL", "DELAYED", "QUALITY_ISSUE", "BANKRUPTCY")
		if !problems.Empty() {
			r.blank()
			r.line("⚠️ Suppliers with issues: %d", problems.Len())

			for _, s := range problems.Rows() {
				r.WriteString("  - " + s.StringOr("supplier_name", "N/A") + " (ID: " + s.StringOr("supplier_id", "N/A") + "): " + s.StringOr("status", "N/A"))
				if issue := s.String("issue_type"); issue != "" {
					r.WriteString(" - " + issue)
				}

				r.blank()
			}
		}
	}

	if avg, ok := suppliers.Mean("lead_time_days"); ok {
		r.blank()
		r.line("Average lead time: %.1f days", avg)
	}

	if avg, ok := suppliers.Mean("reliability_score"); ok {
		r.line("Average reliability score: %.2f", avg)
	}

	return r.String(), nil
}

func (d *Data) placePurchaseOrder(_ *core.ToolContext, in purchaseOrderArgs) (any, error) {
	const name = "place_purchase_order"

	if in.Quantity <= 0 {
		return nil, tool.NewToolError(name, "quantity must be positive", tool.CodeValidation)
	}

	suppliers, err := d.Required(name, in.ScenarioDir, "suppliers.csv")
	if err != nil {
		return nil, err
	}

	supplier, ok := first(suppliers.Where("supplier_id", in.SupplierID))
	if !ok {
		return "Supplier " + in.SupplierID + " not found", nil
	}

	productName := in.ProductID

	products, hasProducts, err := d.Optional(name, in.ScenarioDir, "products.csv")
	if err != nil {
		return nil, err
	}

	if hasProducts {
		if p, ok := first(products.Where("product_id", in.ProductID)); ok {
			productName = p.StringOr("product_name", in.ProductID)
		}
	}

	r := newReport("Purchase Order Recommendation")
	r.rule()
	r.line("Supplier: %s (ID: %s)", supplier.StringOr("supplier_name", "N/A"), in.SupplierID)
	r.line("Status: %s", supplier.StringOr("status", "N/A"))
	r.line("Product: %s", productName)
	r.line("Quantity: %d", in.Quantity)

	if price, ok := supplier.Float("unit_price"); ok {
		r.line("Unit Price: $%.2f", price)
		r.line("Total Cost: %s", money(price*float64(in.Quantity)))
	}

	if lead := supplier.String("lead_time_days"); lead != "" {
		r.line("Expected Lead Time: %s days", lead)
	}

	if score, ok := supplier.Float("reliability_score"); ok {
		r.line("Supplier Reliability: %.2f", score)
	}

	if status := supplier.String("status"); status != "ACTIVE" && status != "OPERATIONAL" {
		r.blank()
		r.line("⚠️ WARNING: Supplier status is %s. Consider alternative suppliers.", status)
	}

	return r.String(), nil
}

func (d *Data) predictSupplierDelays(_ *core.ToolContext, in scenarioArgs) (any, error) {
	orders, ok, err := d.Optional("predict_supplier_delays", in.ScenarioDir, "purchase_orders.csv")
	if err != nil {
		return nil, err
	}

	if !ok {
		return "No purchase orders data available for this scenario", nil
	}

	r := newReport("Supplier Delay Prediction Analysis")
	r.line("Total purchase orders: %d", orders.Len())

	if !orders.Has("status") {
		return r.String(), nil
	}

	r.blank()
	r.line("PO Status Distribution:")
	r.counts(orders.CountBy("status"))

	problems := orders.Where("status", "DELAYED", "AT_RISK", "CRITICAL")
	if !problems.Empty() {
		r.blank()
		r.line("⚠️ Orders at risk: %d", problems.Len())

		for _, po := range problems.Head(10).Rows() {
			r.WriteString("  - PO " + po.StringOr("po_id", "N/A") + ": " + po.StringOr("product_id", "N/A") +
				" from " + po.StringOr("supplier_id", "N/A") + " - " + po.StringOr("status", "N/A"))
			if expected := po.String("expected_delivery"); expected != "" {
				r.WriteString(" (Expected: " + expected + ")")
			}

			r.blank()
		}
	}

	if orders.Has("quantity") {
		r.blank()
		r.line("Total quantity at risk of delay: %s", whole(orders.Where("status", "DELAYED", "AT_RISK").Sum("quantity")))
	}

	return r.String(), nil
}
