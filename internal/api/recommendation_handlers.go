package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklyapp/bookly-server/internal/domain"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        s.path("/recommend"),
		Summary:     "Recommend books",
		Description: "Returns up to five books of the given genre ranked by how well their mood tags match the mood. " +
			"Genre is compared case-insensitively and literally.",
		Tags: []string{"Recommendations"},
	}, s.handleRecommend)
}

// RecommendRequest is the body of a recommendation query. Both fields are
// required but may be empty.
type RecommendRequest struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Mood  string   `json:"mood" doc:"Free-text mood, e.g. adventurous"`
	Genre string   `json:"genre" doc:"Genre to match exactly, ignoring case"`
}

// RecommendInput wraps the recommendation request for Huma.
type RecommendInput struct {
	Body RecommendRequest
}

// RecommendResponse contains ranked books and the total match count.
type RecommendResponse struct {
	Books        []domain.Book `json:"books" doc:"Best matches, at most five, best first"`
	TotalMatches int           `json:"total_matches" doc:"Number of books matching genre and mood"`
}

// RecommendOutput wraps the recommendation response for Huma.
type RecommendOutput struct {
	Body RecommendResponse
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error) {
	result, err := s.services.Recommendation.Recommend(ctx, input.Body.Mood, input.Body.Genre)
	if err != nil {
		return nil, s.toHTTPError(err)
	}

	return &RecommendOutput{
		Body: RecommendResponse{
			Books:        result.Books,
			TotalMatches: result.TotalMatches,
		},
	}, nil
}
