package handlers

import (
	"net/http"

	"github.com/ghuser/wishlist/pkg/errhttp"
	"github.com/ghuser/wishlist/pkg/httpx"
	pkgvalidator "github.com/ghuser/wishlist/pkg/validator"
)

// PutWishHandler handles PUT /wishes/{id}.
type PutWishHandler struct {
	wishes       WishStore
	isProduction bool
}

// NewPutWishHandler returns a PutWishHandler.
func NewPutWishHandler(wishes WishStore, isProduction bool) *PutWishHandler {
	return &PutWishHandler{wishes: wishes, isProduction: isProduction}
}

// Execute replaces the name and item of a wish.
//
//	@Summary		Update wish
//	@Description	Sets name and item. The id and creation time never change.
//	@Tags			wishes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Wish ID"	format(uuid)
//	@Param			request	body		WishRequest	true	"New values"
//	@Success		200		{object}	WishResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/wishes/{id} [put]
func (h *PutWishHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := wishID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[WishRequest](w, r)
	if !ok {
		return
	}

	wish, err := h.wishes.Update(r.Context(), id, req.Name, req.Item)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toWishResponse(wish))
}
