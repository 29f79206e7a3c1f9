package services

import (
	"github.com/ghuser/wishlist/pkg/app"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the wishlist.
type Services struct {
	Wish     *WishService
	Activity *ActivityService
}

// New wires the wishlist services with infrastructure from the Application
// container. Events are published only when the container has an EventBus.
func New(a *app.Application) *Services {
	var bus postgres.EventPublisher
	if a.EventBus != nil {
		bus = a.EventBus
	}
	return &Services{
		Wish:     NewWishService(postgres.NewWishRepository(a.Db, bus)),
		Activity: NewActivityService(postgres.NewActivityRepository(a.Db)),
	}
}
