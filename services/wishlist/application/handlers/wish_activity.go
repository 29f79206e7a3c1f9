package handlers

import (
	"net/http"

	"github.com/ghuser/wishlist/pkg/errhttp"
	"github.com/ghuser/wishlist/pkg/httpx"
)

// WishActivityHandler handles GET /wishes/{id}/activity.
type WishActivityHandler struct {
	activity     ActivityReader
	isProduction bool
}

// NewWishActivityHandler returns a WishActivityHandler.
func NewWishActivityHandler(activity ActivityReader, isProduction bool) *WishActivityHandler {
	return &WishActivityHandler{activity: activity, isProduction: isProduction}
}

// Execute returns the activity trail of a wish. Deleted wishes keep theirs.
//
//	@Summary		Wish activity
//	@Description	Lists what happened to a wish, oldest first. Recorded asynchronously by the worker.
//	@Tags			wishes
//	@Produce		json
//	@Param			id	path		string	true	"Wish ID"	format(uuid)
//	@Success		200	{array}		ActivityResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/wishes/{id}/activity [get]
func (h *WishActivityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := wishID(w, r)
	if !ok {
		return
	}

	entries, err := h.activity.History(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	resp := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		resp[i] = ActivityResponse{
			EventID:    e.EventID,
			Action:     e.Action,
			Name:       e.Name,
			Item:       e.Item,
			OccurredAt: e.OccurredAt,
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
