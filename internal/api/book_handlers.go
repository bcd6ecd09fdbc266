package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklyapp/bookly-server/internal/domain"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        s.path("/books"),
		Summary:     "List books",
		Description: "Returns every book in collection order",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          s.path("/books"),
		Summary:       "Create book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	// Registered before /books/{id} so "populate" never reads as an id.
	huma.Register(s.api, huma.Operation{
		OperationID: "populateBooks",
		Method:      http.MethodPost,
		Path:        s.path("/books/populate"),
		Summary:     "Populate sample books",
		Description: "Replaces the whole collection with the built-in sample catalog",
		Tags:        []string{"Books"},
	}, s.handlePopulateBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        s.path("/books/{id}"),
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body []domain.Book
}

// BookIDInput is a request addressing one book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// CreateBookRequest is the body of a create request.
type CreateBookRequest struct {
	Title         string `json:"title" minLength:"1" maxLength:"500" doc:"Book title"`
	Author        string `json:"author" minLength:"1" maxLength:"500" doc:"Author name"`
	Genre         string `json:"genre" minLength:"1" maxLength:"200" doc:"Genre"`
	MoodTags      string `json:"mood_tags" minLength:"1" maxLength:"1000" doc:"Comma-separated mood labels"`
	Description   string `json:"description" maxLength:"10000" doc:"Short description"`
	CoverImageURL string `json:"cover_image_url" doc:"Cover image URL"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// PopulateResponse reports how many sample books were stored.
type PopulateResponse struct {
	Message       string `json:"message" doc:"Human-readable summary"`
	InsertedCount int    `json:"inserted_count" doc:"Number of books inserted"`
}

// PopulateOutput wraps the populate response for Huma.
type PopulateOutput struct {
	Body PopulateResponse
}

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx)
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	return &ListBooksOutput{Body: books}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.CreateBook(ctx, domain.BookFields(input.Body))
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handlePopulateBooks(ctx context.Context, _ *struct{}) (*PopulateOutput, error) {
	result, err := s.services.Book.Populate(ctx)
	if err != nil {
		return nil, s.toHTTPError(err)
	}
	return &PopulateOutput{
		Body: PopulateResponse{
			Message:       result.Message,
			InsertedCount: result.InsertedCount,
		},
	}, nil
}
