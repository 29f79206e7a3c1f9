package handlers

import (
	"net/http"

	"github.com/ghuser/wishlist/pkg/errhttp"
)

// DeleteWishHandler handles DELETE /wishes/{id}.
type DeleteWishHandler struct {
	wishes       WishStore
	isProduction bool
}

// NewDeleteWishHandler returns a DeleteWishHandler.
func NewDeleteWishHandler(wishes WishStore, isProduction bool) *DeleteWishHandler {
	return &DeleteWishHandler{wishes: wishes, isProduction: isProduction}
}

// Execute removes a wish.
//
//	@Summary		Delete wish
//	@Tags			wishes
//	@Param			id	path	string	true	"Wish ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/wishes/{id} [delete]
func (h *DeleteWishHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := wishID(w, r)
	if !ok {
		return
	}

	if err := h.wishes.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
