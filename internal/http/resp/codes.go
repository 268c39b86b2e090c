package resp

// Error and status codes carried in JSON response bodies.
const (
	CodeOK            = "ok"
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
)
