package handlers

import (
	"net/http"

	"github.com/ghuser/wishlist/pkg/errhttp"
	"github.com/ghuser/wishlist/pkg/httpx"
	pkgvalidator "github.com/ghuser/wishlist/pkg/validator"
)

// PostWishHandler handles POST /wishes.
type PostWishHandler struct {
	wishes       WishStore
	isProduction bool
}

// NewPostWishHandler returns a PostWishHandler.
func NewPostWishHandler(wishes WishStore, isProduction bool) *PostWishHandler {
	return &PostWishHandler{wishes: wishes, isProduction: isProduction}
}

// Execute creates a wish.
//
//	@Summary		Create wish
//	@Description	Adds a wish. Name and item are trimmed and must not be blank.
//	@Tags			wishes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		WishRequest	true	"Wish to add"
//	@Success		201		{object}	WishResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/wishes [post]
func (h *PostWishHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[WishRequest](w, r)
	if !ok {
		return
	}

	wish, err := h.wishes.Create(r.Context(), req.Name, req.Item)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusCreated, toWishResponse(wish))
}
