package handler

import (
	"github.com/gofiber/fiber/v3"

	"funstar-catalog/internal/models"
	"funstar-catalog/internal/playback"
	"funstar-catalog/internal/service"
)

// MovieHandler handles HTTP requests for the catalog.
type MovieHandler struct {
	svc          *service.MovieService
	surface      playback.Surface
	patchEnabled bool
}

// NewMovieHandler creates a new MovieHandler. PATCH answers 405 unless patchEnabled.
func NewMovieHandler(svc *service.MovieService, surface playback.Surface, patchEnabled bool) *MovieHandler {
	if surface == nil {
		surface = playback.Redirect{}
	}
	return &MovieHandler{svc: svc, surface: surface, patchEnabled: patchEnabled}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "catalog-service",
	})
}

// ListMovies returns the catalog, optionally narrowed by category and trending.
// @Summary List movies
// @Tags movies
// @Produce json
// @Param category query string false "Category id, or all" default(all)
// @Param trending query bool false "Only trending movies"
// @Success 200 {array} models.Movie
// @Failure 500 {object} ErrorResponse
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c fiber.Ctx) error {
	filter := models.ListFilter{
		Category: c.Query("category"),
		Trending: c.Query("trending") == "true",
	}

	movies, err := h.svc.ListMovies(c.Context(), filter)
	if err != nil {
		return serviceError(c, "list movies", err)
	}
	return c.JSON(movies)
}

// GetMovie returns a single movie.
// @Summary Get movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} models.Movie
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c fiber.Ctx) error {
	movie, err := h.svc.GetMovie(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, "get movie", err)
	}
	return c.JSON(movie)
}

// CreateMovie adds a movie to the catalog.
// @Summary Create movie
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body models.MovieInput true "Movie"
// @Success 201 {object} models.Movie
// @Failure 400 {object} ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c fiber.Ctx) error {
	var in models.MovieInput
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
	}

	movie, err := h.svc.CreateMovie(c.Context(), in)
	if err != nil {
		return serviceError(c, "create movie", err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// UpdateMovie replaces a movie. Fields omitted from the body are cleared.
// @Summary Replace movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID"
// @Param movie body models.MovieInput true "Movie"
// @Success 200 {object} models.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c fiber.Ctx) error {
	var in models.MovieInput
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
	}

	movie, err := h.svc.UpdateMovie(c.Context(), c.Params("id"), in)
	if err != nil {
		return serviceError(c, "update movie", err)
	}
	return c.JSON(movie)
}

// PatchMovie changes only the fields present in the body.
// @Summary Partially update movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} models.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Router /movies/{id} [patch]
func (h *MovieHandler) PatchMovie(c fiber.Ctx) error {
	if !h.patchEnabled {
		return MethodNotAllowed(c)
	}

	var patch models.MoviePatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidBody})
	}

	movie, err := h.svc.PatchMovie(c.Context(), c.Params("id"), patch)
	if err != nil {
		return serviceError(c, "patch movie", err)
	}
	return c.JSON(movie)
}

// DeleteMovie removes a movie.
// @Summary Delete movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c fiber.Ctx) error {
	if err := h.svc.DeleteMovie(c.Context(), c.Params("id")); err != nil {
		return serviceError(c, "delete movie", err)
	}
	return c.JSON(MessageResponse{Message: msgDeleted})
}

// SearchMovies runs a free-text catalog search.
// @Summary Search movies
// @Tags search
// @Produce json
// @Param q query string true "Search text"
// @Param category query string false "Category id, or all" default(all)
// @Param limit query int false "Maximum results" default(50)
// @Success 200 {array} models.Movie
// @Failure 400 {object} ErrorResponse
// @Router /search [get]
func (h *MovieHandler) SearchMovies(c fiber.Ctx) error {
	params := models.SearchParams{
		Query:    c.Query("q"),
		Category: c.Query("category", models.CategoryAll),
		Limit:    fiber.Query(c, "limit", models.DefaultSearchLimit),
	}

	movies, err := h.svc.SearchMovies(c.Context(), params)
	if err != nil {
		return serviceError(c, "search movies", err)
	}
	return c.JSON(movies)
}

// Categories lists the known browse categories.
func (h *MovieHandler) Categories(c fiber.Ctx) error {
	return c.JSON(models.Categories)
}

// Watch hands the movie's video to the playback surface.
func (h *MovieHandler) Watch(c fiber.Ctx) error {
	movie, err := h.svc.GetMovie(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, "watch movie", err)
	}
	return h.surface.Present(c, movie.VideoURL, movie.Title)
}
