package serverutils

// APIResponse is the uniform JSON envelope for successful responses.
type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) *APIResponse {
	return &APIResponse{Message: message, Data: data}
}
