package payment

const (
	StatusQueued    = "QUEUED"
	StatusRequested = "REQUESTED"
	StatusError     = "ERROR"
)

// StatusResponse is returned by the payment backend for every /pay or /collect
// request, whether or not it succeeded
type StatusResponse struct {
	TransactionID *int64 `json:"transactionId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// NewErrorResponse builds a StatusResponse describing a rejected request
func NewErrorResponse(message string) StatusResponse {
	return StatusResponse{
		Status:  StatusError,
		Message: message,
	}
}
