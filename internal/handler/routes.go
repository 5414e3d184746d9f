package handler

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts the catalog, search and favourites routes on r.
// Each path ends with a catch-all so unsupported verbs answer 405.
func RegisterRoutes(r fiber.Router, movies *MovieHandler, favourites *FavouriteHandler) {
	r.Get("/movies", movies.ListMovies)
	r.Post("/movies", movies.CreateMovie)
	r.All("/movies", MethodNotAllowed)

	r.Get("/movies/:id", movies.GetMovie)
	r.Put("/movies/:id", movies.UpdateMovie)
	r.Patch("/movies/:id", movies.PatchMovie)
	r.Delete("/movies/:id", movies.DeleteMovie)
	r.All("/movies/:id", MethodNotAllowed)

	r.Get("/search", movies.SearchMovies)
	r.All("/search", MethodNotAllowed)

	r.Get("/categories", movies.Categories)
	r.Get("/watch/:id", movies.Watch)

	r.Get("/favourites", favourites.List)
	r.All("/favourites", MethodNotAllowed)
	r.Post("/favourites/:id", favourites.Add)
	r.Delete("/favourites/:id", favourites.Remove)
	r.All("/favourites/:id", MethodNotAllowed)
}
