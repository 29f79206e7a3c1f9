package handlers

import (
	"net/http"

	"github.com/ghuser/wishlist/pkg/errhttp"
	"github.com/ghuser/wishlist/pkg/httpx"
)

// ListWishesHandler handles GET /wishes.
type ListWishesHandler struct {
	wishes       WishStore
	isProduction bool
}

// NewListWishesHandler returns a ListWishesHandler.
func NewListWishesHandler(wishes WishStore, isProduction bool) *ListWishesHandler {
	return &ListWishesHandler{wishes: wishes, isProduction: isProduction}
}

// Execute lists every wish.
//
//	@Summary		List wishes
//	@Description	Returns every wish, newest first
//	@Tags			wishes
//	@Produce		json
//	@Success		200	{array}		WishResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/wishes [get]
func (h *ListWishesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	wishes, err := h.wishes.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	resp := make([]WishResponse, len(wishes))
	for i, wish := range wishes {
		resp[i] = toWishResponse(wish)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
