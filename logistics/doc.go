// Package logistics defines the six logistics worker agents and the
// read-only tools they use to inspect a scenario's mock CSV data.
//
// Tools never modify data: "placing" an order or "assigning" a vehicle
// only produces a recommendation from the files. Every tool takes the
// scenario directory name (for example scenario_2_route_disruption) which
// is resolved below the configured data directory.
package logistics
