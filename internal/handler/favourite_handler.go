package handler

import (
	"github.com/gofiber/fiber/v3"

	"funstar-catalog/internal/middleware"
	"funstar-catalog/internal/models"
	"funstar-catalog/internal/service"
)

// FavouriteHandler serves the caller's watchlist.
type FavouriteHandler struct {
	svc *service.FavouriteService
}

func NewFavouriteHandler(svc *service.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{svc: svc}
}

// owner keys favourites by the identified user; unidentified callers share one list.
func owner(c fiber.Ctx) string {
	u := middleware.CurrentUser(c)
	if u.Anonymous || u.ID == "" {
		return models.AnonymousOwner
	}
	return u.ID
}

// List returns the caller's favourite movies.
func (h *FavouriteHandler) List(c fiber.Ctx) error {
	movies, err := h.svc.List(c.Context(), owner(c))
	if err != nil {
		return serviceError(c, "list favourites", err)
	}
	return c.JSON(movies)
}

// Add marks a movie as a favourite.
func (h *FavouriteHandler) Add(c fiber.Ctx) error {
	resp, err := h.svc.Add(c.Context(), owner(c), c.Params("id"))
	if err != nil {
		return serviceError(c, "add favourite", err)
	}
	return c.JSON(resp)
}

// Remove clears a favourite marker.
func (h *FavouriteHandler) Remove(c fiber.Ctx) error {
	resp, err := h.svc.Remove(c.Context(), owner(c), c.Params("id"))
	if err != nil {
		return serviceError(c, "remove favourite", err)
	}
	return c.JSON(resp)
}
