package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/wishlist/pkg/httpx"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
)

// WishStore is the wish service surface used by the JSON handlers.
type WishStore interface {
	List(ctx context.Context) ([]models.Wish, error)
	Create(ctx context.Context, name, item string) (models.Wish, error)
	Update(ctx context.Context, id uuid.UUID, name, item string) (models.Wish, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityReader reads the activity trail.
type ActivityReader interface {
	History(ctx context.Context, id uuid.UUID) ([]repositories.ActivityEntry, error)
}

// WishRequest is the request body for POST /wishes and PUT /wishes/{id}.
type WishRequest struct {
	Name string `json:"name" validate:"required,notblank" example:"Alice"`
	Item string `json:"item" validate:"required,notblank" example:"a pony"`
} // @name WishRequest

// WishResponse is one wish as returned by the API.
type WishResponse struct {
	ID        uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"       example:"Alice"`
	Item      string    `json:"item"       example:"a pony"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
} // @name WishResponse

// ActivityResponse is one activity trail entry.
type ActivityResponse struct {
	EventID    uuid.UUID `json:"event_id"    example:"9b2f8c1e-3c1d-4e55-8f7a-0d6c2b1a4e90"`
	Action     string    `json:"action"      example:"updated"`
	Name       string    `json:"name"        example:"Alice"`
	Item       string    `json:"item"        example:"two ponies"`
	OccurredAt time.Time `json:"occurred_at" example:"2024-01-15T10:35:00Z"`
} // @name ActivityResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"wish not found"`
} // @name ErrorResponse

func toWishResponse(w models.Wish) WishResponse {
	return WishResponse{
		ID:        w.ID,
		Name:      w.Name.String(),
		Item:      w.Item.String(),
		CreatedAt: w.CreatedAt,
	}
}

// wishID parses the {id} URL parameter, writing a 400 when it is not a UUID.
func wishID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid wish id"})
		return uuid.Nil, false
	}
	return id, true
}
