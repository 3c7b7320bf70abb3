package api

// executeRequest is the POST /execute request body (spec.md §6).
type executeRequest struct {
	Code string  `json:"code" binding:"required"`
	ID   *string `json:"id"`
}

// executeResponse is the POST /execute response body (spec.md §6).
// Unused fields are nil pointers, which encode as JSON null rather than
// being omitted, so every response carries all four keys.
type executeResponse struct {
	ID     *string `json:"id"`
	Stdout *string `json:"stdout"`
	Stderr *string `json:"stderr"`
	Error  *string `json:"error"`
}
