package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerRootRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "root",
		Method:      http.MethodGet,
		Path:        s.path("/"),
		Summary:     "Greeting",
		Tags:        []string{"Meta"},
	}, s.handleRoot)
}

// MessageResponse is a response carrying only a message.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func (s *Server) handleRoot(_ context.Context, _ *struct{}) (*MessageOutput, error) {
	return &MessageOutput{Body: MessageResponse{Message: "Hello World"}}, nil
}
