package types

// SuccessEnvelope wraps every successful API payload under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a failed request. Code is one of the
// stable machine-readable error codes; Details carries field-level
// context such as the item that ran out of stock.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
