// Package server exposes the logistics mesh over HTTP: scenario browsing,
// asynchronous runs with persisted history, live step streaming over
// websockets and Prometheus metrics.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/info
//	GET    /api/graph
//	GET    /api/scenarios
//	GET    /api/scenarios/{id}
//	POST   /api/scenarios/{id}/runs
//	GET    /api/scenarios/{id}/stream   (websocket)
//	GET    /api/runs
//	GET    /api/runs/{id}
//	DELETE /api/runs/{id}
//	GET    /metrics
package server
