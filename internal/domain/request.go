package domain

import "net/http"

// Request describes one upstream Admina API call. Endpoint is the path suffix
// appended to /organizations/{organizationId}.
type Request struct {
	Method   string
	Endpoint string
	Filters  Filters
	Body     any
}

// AllowsBody reports whether method carries a JSON request body.
func AllowsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
