package intelmesh

import "expvar"

// Client-side call counters using stdlib expvar. They show up on the
// /debug/vars endpoint of any importing binary that serves it.
var (
	requestsTotal      = expvar.NewInt("intelmesh_requests_total")
	requestErrorsTotal = expvar.NewInt("intelmesh_request_errors_total")
)
