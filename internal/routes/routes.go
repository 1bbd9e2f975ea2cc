package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/wanderlog-backend/internal/handlers"
)

func SetupRoutes(r chi.Router) {
	// Auth routes
	r.Post("/api/register", handlers.Register)
	r.Post("/api/login", handlers.Login)
	r.Post("/api/logout", handlers.Logout)
	r.Get("/api/check-auth", handlers.CheckAuth)

	// Spot catalog routes
	r.Get("/api/spot/search", handlers.SearchSpots)
	r.Get("/api/spot", handlers.ListSpots)
	r.Post("/api/spot/{name}/fire", handlers.SpotFire)

	// Journal routes
	r.Post("/api/journals", handlers.CreateJournal)
	r.Get("/api/journals", handlers.GetJournals)
	r.Get("/api/journals/favorites/{userID}", handlers.GetFavorites)
	r.Get("/api/journals/{journalID}", handlers.GetJournalDetail)
	r.Delete("/api/journals/{journalID}", handlers.DeleteJournal)
	r.Post("/api/journals/{journalID}/images", handlers.UploadJournalImages)
	r.Post("/api/journals/{journalID}/comments", handlers.CreateComment)
	r.Post("/api/journals/{journalID}/like", handlers.LikeJournal)
	r.Post("/api/journals/{journalID}/check-like", handlers.CheckLike)
	r.Post("/api/journals/{journalID}/rate", handlers.RateJournal)
	r.Post("/api/journals/{journalID}/check-rating", handlers.CheckRating)

	// Comment routes
	r.Post("/api/comments/{commentID}/replies", handlers.CreateReply)
	r.Post("/api/comments/{commentID}/like", handlers.LikeComment)

	// Interest tracking routes
	r.Post("/api/update-interest", handlers.UpdateInterest)
	r.Get("/api/interest/{userID}", handlers.GetInterest)
}
