package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklyapp/bookly-server/internal/domain"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createStatusCheck",
		Method:      http.MethodPost,
		Path:        s.path("/status"),
		Summary:     "Record status check",
		Tags:        []string{"Status"},
	}, s.handleCreateStatusCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "listStatusChecks",
		Method:      http.MethodGet,
		Path:        s.path("/status"),
		Summary:     "List status checks",
		Description: "Returns up to 1000 status checks, oldest first",
		Tags:        []string{"Status"},
	}, s.handleListStatusChecks)
}

// CreateStatusCheckInput wraps the status check request for Huma.
type CreateStatusCheckInput struct {
	Body struct {
		ClientName string `json:"client_name" doc:"Name of the reporting client"`
	}
}

// StatusCheckOutput wraps a status check for Huma.
type StatusCheckOutput struct {
	Body *domain.StatusCheck
}

// ListStatusChecksOutput wraps the status check list for Huma.
type ListStatusChecksOutput struct {
	Body []*domain.StatusCheck
}

func (s *Server) handleCreateStatusCheck(ctx context.Context, input *CreateStatusCheckInput) (*StatusCheckOutput, error) {
	check, err := s.services.Status.CreateStatusCheck(ctx, input.Body.ClientName)
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	return &StatusCheckOutput{Body: check}, nil
}

func (s *Server) handleListStatusChecks(ctx context.Context, _ *struct{}) (*ListStatusChecksOutput, error) {
	checks, err := s.services.Status.ListStatusChecks(ctx)
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	if checks == nil {
		checks = []*domain.StatusCheck{}
	}
	return &ListStatusChecksOutput{Body: checks}, nil
}
