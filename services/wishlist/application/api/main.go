package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/wishlist/services/wishlist/application/handlers"
	appsvcs "github.com/ghuser/wishlist/services/wishlist/application/services"
)

// WishlistRoutes registers the JSON endpoints on r, normally mounted at /api.
func WishlistRoutes(r chi.Router, wishes handlers.WishStore, activity handlers.ActivityReader, isProduction bool) {
	r.Route("/wishes", func(r chi.Router) {
		r.Get("/", handlers.NewListWishesHandler(wishes, isProduction).Execute)
		r.Post("/", handlers.NewPostWishHandler(wishes, isProduction).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", handlers.NewPutWishHandler(wishes, isProduction).Execute)
			r.Delete("/", handlers.NewDeleteWishHandler(wishes, isProduction).Execute)
			r.Get("/activity", handlers.NewWishActivityHandler(activity, isProduction).Execute)
		})
	})
}

// Routes registers the JSON endpoints backed by svcs.
func Routes(r chi.Router, svcs *appsvcs.Services, isProduction bool) {
	WishlistRoutes(r, svcs.Wish, svcs.Activity, isProduction)
}
