// Package ctxkeys names values stored on the gin context.
package ctxkeys

const (
	// RequestID stores the request id assigned by the server middleware.
	RequestID = "request_id"
)
