package models

// MutationResult is the normalized outcome of every create/update/delete call.
// Success is true iff the HTTP status was 2xx.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageBody is the generic {message} body most endpoints return
type MessageBody struct {
	Message string `json:"message"`
}
