package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"funstar-catalog/internal/auth"
	"funstar-catalog/internal/middleware"
	"funstar-catalog/internal/models"
	"funstar-catalog/internal/repository"
	"funstar-catalog/internal/service"
)

const darkBody = `{"title":"Dark","description":"a small town","videoUrl":"https://videos.example/dark.mp4",` +
	`"thumbnailUrl":"https://images.example/dark.jpg","genre":["Sci-Fi"],"duration":"50 min",` +
	`"category":"tv-series","isTrending":true}`

type testEnv struct {
	app    *fiber.App
	movies *service.MovieService
}

func newTestApp(t *testing.T, patchEnabled bool, a auth.Authenticator) *testEnv {
	t.Helper()
	if a == nil {
		a = auth.Noop{}
	}
	movies := service.NewMovieService(repository.NewMemoryMovieRepository(), nil, service.Options{})
	favourites := service.NewFavouriteService(repository.NewMemoryFavouriteRepository(), movies)

	app := fiber.New(NewConfig("catalog-test"))
	app.Use(middleware.Authenticate(a))
	mh := NewMovieHandler(movies, nil, patchEnabled)
	fh := NewFavouriteHandler(favourites)
	app.Get("/health", mh.Health)
	RegisterRoutes(app, mh, fh)
	RegisterRoutes(app.Group("/api"), mh, fh)
	return &testEnv{app: app, movies: movies}
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers ...string) (int, []byte, http.Header) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, resp.Header
}

func (e *testEnv) create(t *testing.T, body string) models.Movie {
	t.Helper()
	status, data, _ := e.do(t, http.MethodPost, "/movies", body)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d body = %s", status, data)
	}
	var m models.Movie
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode created movie: %v", err)
	}
	return m
}

func decodeError(t *testing.T, data []byte) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode error body %s: %v", data, err)
	}
	return e
}

func decodeMovies(t *testing.T, data []byte) []models.Movie {
	t.Helper()
	var ms []models.Movie
	if err := json.Unmarshal(data, &ms); err != nil {
		t.Fatalf("decode movies %s: %v", data, err)
	}
	return ms
}

func TestHealth(t *testing.T) {
	env := newTestApp(t, false, nil)
	status, body, _ := env.do(t, http.MethodGet, "/health", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("health = %d %s", status, body)
	}
}

func TestCreateAndGetMovie(t *testing.T) {
	env := newTestApp(t, false, nil)
	created := env.create(t, darkBody)
	if created.ID == "" || created.Title != "Dark" || !created.IsTrending {
		t.Fatalf("created = %+v", created)
	}

	for _, prefix := range []string{"", "/api"} {
		status, body, _ := env.do(t, http.MethodGet, prefix+"/movies/"+created.ID, "")
		if status != fiber.StatusOK {
			t.Fatalf("GET %s/movies/:id = %d", prefix, status)
		}
		var got models.Movie
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatal(err)
		}
		if got.ID != created.ID || len(got.Genre) != 1 || got.Genre[0] != "Sci-Fi" {
			t.Errorf("GET %s = %+v", prefix, got)
		}
	}
}

func TestCreateMovieMissingFields(t *testing.T) {
	env := newTestApp(t, false, nil)
	status, body, _ := env.do(t, http.MethodPost, "/movies", `{"title":"Dark"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	e := decodeError(t, body)
	if e.Error != "Missing required fields" {
		t.Errorf("error = %q", e.Error)
	}
	if len(e.Fields) != 4 {
		t.Errorf("fields = %v, want four missing", e.Fields)
	}

	_, body, _ = env.do(t, http.MethodGet, "/movies", "")
	if got := decodeMovies(t, body); len(got) != 0 {
		t.Errorf("rejected create persisted %d movies", len(got))
	}
}

func TestMalformedBody(t *testing.T) {
	env := newTestApp(t, false, nil)
	status, body, _ := env.do(t, http.MethodPost, "/movies", `{"title":`)
	if status != fiber.StatusBadRequest || decodeError(t, body).Error != "Invalid request body" {
		t.Errorf("malformed body = %d %s", status, body)
	}
}

func TestGetUnknownMovie(t *testing.T) {
	env := newTestApp(t, false, nil)
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		status, body, _ := env.do(t, method, "/movies/does-not-exist", "")
		if status != fiber.StatusNotFound || decodeError(t, body).Error != "Movie not found" {
			t.Errorf("%s unknown = %d %s", method, status, body)
		}
	}
	status, _, _ := env.do(t, http.MethodPut, "/movies/does-not-exist", darkBody)
	if status != fiber.StatusNotFound {
		t.Errorf("PUT unknown = %d, want 404", status)
	}
}

func TestListFilters(t *testing.T) {
	env := newTestApp(t, false, nil)
	env.create(t, darkBody)
	env.create(t, strings.Replace(darkBody, `"category":"tv-series","isTrending":true`, `"category":"movies","isTrending":false`, 1))

	cases := map[string]int{
		"/movies":                               2,
		"/movies?category=all":                  2,
		"/movies?category=movies":               1,
		"/movies?trending=true":                 1,
		"/movies?trending=1":                    2,
		"/movies?category=movies&trending=true": 0,
		"/movies?category=anime":                0,
	}
	for target, want := range cases {
		status, body, _ := env.do(t, http.MethodGet, target, "")
		if status != fiber.StatusOK {
			t.Fatalf("%s = %d", target, status)
		}
		if got := decodeMovies(t, body); len(got) != want {
			t.Errorf("%s returned %d movies, want %d", target, len(got), want)
		}
	}
}

func TestUpdateIsFullReplace(t *testing.T) {
	env := newTestApp(t, false, nil)
	created := env.create(t, darkBody)

	replacement := `{"title":"Dark (2017)","description":"d","videoUrl":"https://v/x.mp4","thumbnailUrl":"https://t/x.jpg","category":"tv-series"}`
	status, body, _ := env.do(t, http.MethodPut, "/movies/"+created.ID, replacement)
	if status != fiber.StatusOK {
		t.Fatalf("PUT = %d %s", status, body)
	}
	var got models.Movie
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Dark (2017)" || got.IsTrending || got.Duration != "" || len(got.Genre) != 0 {
		t.Errorf("PUT should clear omitted fields, got %+v", got)
	}
}

func TestPatch(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		env := newTestApp(t, false, nil)
		created := env.create(t, darkBody)
		status, body, _ := env.do(t, http.MethodPatch, "/movies/"+created.ID, `{"isTrending":false}`)
		if status != fiber.StatusMethodNotAllowed || decodeError(t, body).Error != "Method not allowed" {
			t.Errorf("PATCH disabled = %d %s", status, body)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		env := newTestApp(t, true, nil)
		created := env.create(t, darkBody)
		status, body, _ := env.do(t, http.MethodPatch, "/movies/"+created.ID, `{"isTrending":false}`)
		if status != fiber.StatusOK {
			t.Fatalf("PATCH = %d %s", status, body)
		}
		var got models.Movie
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatal(err)
		}
		if got.IsTrending || got.Duration != "50 min" || len(got.Genre) != 1 {
			t.Errorf("PATCH changed more than isTrending: %+v", got)
		}
	})
}

func TestDeleteMovie(t *testing.T) {
	env := newTestApp(t, false, nil)
	created := env.create(t, darkBody)

	status, body, _ := env.do(t, http.MethodDelete, "/movies/"+created.ID, "")
	if status != fiber.StatusOK || !strings.Contains(string(body), "Movie deleted successfully") {
		t.Fatalf("DELETE = %d %s", status, body)
	}
	status, _, _ = env.do(t, http.MethodGet, "/movies/"+created.ID, "")
	if status != fiber.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", status)
	}
}

func TestUnsupportedMethods(t *testing.T) {
	env := newTestApp(t, false, nil)
	cases := []struct{ method, target string }{
		{http.MethodDelete, "/movies"},
		{http.MethodPut, "/movies"},
		{http.MethodPost, "/movies/abc"},
		{http.MethodPost, "/search"},
		{http.MethodPut, "/api/search"},
		{http.MethodPut, "/favourites"},
	}
	for _, tc := range cases {
		status, body, _ := env.do(t, tc.method, tc.target, "")
		if status != fiber.StatusMethodNotAllowed || decodeError(t, body).Error != "Method not allowed" {
			t.Errorf("%s %s = %d %s", tc.method, tc.target, status, body)
		}
	}
}

func TestSearch(t *testing.T) {
	env := newTestApp(t, false, nil)
	env.create(t, darkBody)

	for _, target := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		status, body, _ := env.do(t, http.MethodGet, target, "")
		if status != fiber.StatusBadRequest || decodeError(t, body).Error != "Search query is required" {
			t.Errorf("%s = %d %s", target, status, body)
		}
	}

	cases := map[string]int{
		"/search?q=dark":                      1,
		"/search?q=SMALL":                     1,
		"/search?q=Sci-Fi":                    1,
		"/search?q=dark&category=movies":      0,
		"/search?q=dark&category=tv-series":   1,
		"/search?q=dark&limit=abc":            1,
		"/search?q=dark&limit=0":              1,
		"/api/search?q=dark&category=all":     1,
		"/search?q=xyz-no-match":              0,
		"/search?q=dark&limit=100000&junk=on": 1,
	}
	for target, want := range cases {
		status, body, _ := env.do(t, http.MethodGet, target, "")
		if status != fiber.StatusOK {
			t.Fatalf("%s = %d %s", target, status, body)
		}
		if got := decodeMovies(t, body); len(got) != want {
			t.Errorf("%s returned %d, want %d", target, len(got), want)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	env := newTestApp(t, false, nil)
	for i := 0; i < 3; i++ {
		env.create(t, darkBody)
	}
	_, body, _ := env.do(t, http.MethodGet, "/search?q=dark&limit=2", "")
	if got := decodeMovies(t, body); len(got) != 2 {
		t.Errorf("limit=2 returned %d", len(got))
	}
}

func TestCategories(t *testing.T) {
	env := newTestApp(t, false, nil)
	status, body, _ := env.do(t, http.MethodGet, "/categories", "")
	if status != fiber.StatusOK {
		t.Fatalf("categories = %d", status)
	}
	var cats []models.Category
	if err := json.Unmarshal(body, &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(models.Categories) {
		t.Errorf("got %d categories, want %d", len(cats), len(models.Categories))
	}
}

func TestWatchRedirects(t *testing.T) {
	env := newTestApp(t, false, nil)
	created := env.create(t, darkBody)

	status, _, headers := env.do(t, http.MethodGet, "/watch/"+created.ID, "")
	if status != fiber.StatusFound {
		t.Fatalf("watch = %d, want 302", status)
	}
	if loc := headers.Get("Location"); loc != "https://videos.example/dark.mp4" {
		t.Errorf("Location = %q", loc)
	}

	status, _, _ = env.do(t, http.MethodGet, "/watch/ghost", "")
	if status != fiber.StatusNotFound {
		t.Errorf("watch unknown = %d, want 404", status)
	}
}

func TestFavourites(t *testing.T) {
	jwtAuth, err := auth.NewJWT("test-secret")
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	env := newTestApp(t, false, jwtAuth)
	created := env.create(t, darkBody)

	token, err := jwtAuth.Issue("viewer-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	bearer := []string{"Authorization", "Bearer " + token}

	status, body, _ := env.do(t, http.MethodPost, "/favourites/"+created.ID, "", bearer...)
	if status != fiber.StatusOK {
		t.Fatalf("add favourite = %d %s", status, body)
	}
	var ids models.FavouriteIDsResponse
	if err := json.Unmarshal(body, &ids); err != nil {
		t.Fatal(err)
	}
	if ids.Owner != "viewer-1" || len(ids.MovieIDs) != 1 || ids.MovieIDs[0] != created.ID {
		t.Errorf("add favourite = %+v", ids)
	}

	_, body, _ = env.do(t, http.MethodGet, "/favourites", "", bearer...)
	if got := decodeMovies(t, body); len(got) != 1 || got[0].ID != created.ID {
		t.Errorf("favourites = %+v", got)
	}

	// anonymous callers do not see another viewer's list
	_, body, _ = env.do(t, http.MethodGet, "/api/favourites", "")
	if got := decodeMovies(t, body); len(got) != 0 {
		t.Errorf("anonymous favourites = %+v", got)
	}

	status, _, _ = env.do(t, http.MethodPost, "/favourites/ghost", "", bearer...)
	if status != fiber.StatusNotFound {
		t.Errorf("favourite unknown movie = %d, want 404", status)
	}

	status, body, _ = env.do(t, http.MethodDelete, "/favourites/"+created.ID, "", bearer...)
	if status != fiber.StatusOK || !strings.Contains(string(body), `"movieIds":[]`) {
		t.Errorf("remove favourite = %d %s", status, body)
	}
}

func TestErrorHandlerHidesInternalDetail(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Error != "Internal server error" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestPathIDsSurviveLaterRequests(t *testing.T) {
	env := newTestApp(t, false, nil)
	created := env.create(t, darkBody)

	replacement := strings.Replace(darkBody, `"title":"Dark"`, `"title":"Dark (2017)"`, 1)
	if status, body, _ := env.do(t, http.MethodPut, "/movies/"+created.ID, replacement); status != fiber.StatusOK {
		t.Fatalf("PUT = %d %s", status, body)
	}
	if status, body, _ := env.do(t, http.MethodPost, "/favourites/"+created.ID, ""); status != fiber.StatusOK {
		t.Fatalf("add favourite = %d %s", status, body)
	}

	// reuse the request buffers with different paths and queries
	for i := 0; i < 50; i++ {
		env.do(t, http.MethodGet, fmt.Sprintf("/search?q=zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz-%d", i), "")
		env.do(t, http.MethodGet, fmt.Sprintf("/movies/unrelated-id-%036d", i), "")
	}

	status, body, _ := env.do(t, http.MethodGet, "/movies/"+created.ID, "")
	if status != fiber.StatusOK {
		t.Fatalf("GET after PUT = %d %s", status, body)
	}
	var got models.Movie
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || got.Title != "Dark (2017)" {
		t.Errorf("GET after PUT = %+v", got)
	}

	_, body, _ = env.do(t, http.MethodGet, "/movies", "")
	if all := decodeMovies(t, body); len(all) != 1 || all[0].ID != created.ID {
		t.Errorf("list after PUT = %+v", all)
	}

	_, body, _ = env.do(t, http.MethodGet, "/favourites", "")
	if favs := decodeMovies(t, body); len(favs) != 1 || favs[0].ID != created.ID {
		t.Errorf("favourites = %+v", favs)
	}
}
