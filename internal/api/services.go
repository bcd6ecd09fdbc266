package api

import (
	"github.com/booklyapp/bookly-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Recommendation *service.RecommendationService
	Book           *service.BookService
	Status         *service.StatusService
}
