package webhook

import "context"

// MessagePayload is the only body ever posted: {"message": "<transcript>"}.
type MessagePayload struct {
	Message string `json:"message"`
}

type Result struct {
	Endpoint   string
	StatusCode int
}

type Sender interface {
	SendMessage(ctx context.Context, payload MessagePayload) (*Result, error)
}
