package rest

// ErrorResponse is the JSON shape of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
