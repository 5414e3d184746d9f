package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"funstar-catalog/internal/models"
)

// runMovieStoreContract exercises the behaviour every MovieStore must share.
// newStore must return an empty store.
func runMovieStoreContract(t *testing.T, newStore func(t *testing.T) MovieStore) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		in := &models.Movie{
			ID: "m-1", Title: "Dark", Description: "a small town",
			VideoURL: "https://v/1.mp4", ThumbnailURL: "https://t/1.jpg",
			Genre: []string{"Sci-Fi", "Mystery"}, Duration: "50 min",
			Category: "tv-series", IsTrending: true,
		}
		if err := s.Create(ctx, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(ctx, "m-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		assertMovieEqual(t, *got, *in)
	})

	t.Run("EmptyGenreIsNotNil", func(t *testing.T) {
		s := newStore(t)
		mustCreate(t, s, movie("m-1", "A", "movies", false))
		got, err := s.Get(ctx, "m-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Genre == nil || len(got.Genre) != 0 {
			t.Errorf("Genre = %#v, want empty non-nil slice", got.Genre)
		}
	})

	t.Run("ListFilterComposition", func(t *testing.T) {
		s := newStore(t)
		mustCreate(t, s, movie("A", "Alpha", "movies", true))
		mustCreate(t, s, movie("B", "Bravo", "movies", false))
		mustCreate(t, s, movie("C", "Charlie", "series", true))

		cases := []struct {
			name   string
			filter models.ListFilter
			want   []string
		}{
			{"none", models.ListFilter{}, []string{"A", "B", "C"}},
			{"all sentinel", models.ListFilter{Category: "all"}, []string{"A", "B", "C"}},
			{"category", models.ListFilter{Category: "movies"}, []string{"A", "B"}},
			{"trending", models.ListFilter{Trending: true}, []string{"A", "C"}},
			{"both", models.ListFilter{Category: "movies", Trending: true}, []string{"A"}},
			{"unknown category", models.ListFilter{Category: "anime"}, []string{}},
		}
		for _, tc := range cases {
			got, err := s.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("%s: List: %v", tc.name, err)
			}
			assertIDs(t, tc.name, got, tc.want)
		}
	})

	t.Run("SearchOrMatching", func(t *testing.T) {
		s := newStore(t)
		dark := movie("dark", "Dark", "tv-series", false)
		dark.Description = "a small town"
		dark.Genre = []string{"Sci-Fi"}
		mustCreate(t, s, dark)
		mustCreate(t, s, movie("other", "Crown", "tv-series", false))

		for _, q := range []string{"dark", "DARK", "SMALL TOWN", "small", "Sci-Fi"} {
			got, err := s.Search(ctx, search(q, "all", 50))
			if err != nil {
				t.Fatalf("Search(%q): %v", q, err)
			}
			assertIDs(t, "Search("+q+")", got, []string{"dark"})
		}
		// genre membership is exact and case-sensitive
		for _, q := range []string{"xyz-no-match", "sci-fi", "Sci"} {
			got, err := s.Search(ctx, search(q, "all", 50))
			if err != nil {
				t.Fatalf("Search(%q): %v", q, err)
			}
			assertIDs(t, "Search("+q+")", got, []string{})
		}
	})

	t.Run("SearchCaseFoldingIsUnicode", func(t *testing.T) {
		s := newStore(t)
		m := movie("ete", "ÉTÉ MEURTRIER", "movies", false)
		m.Description = "Une vengeance à SAINT-ÉTIENNE"
		mustCreate(t, s, m)

		for _, q := range []string{"été", "ÉTÉ", "Été meurtrier", "saint-étienne"} {
			got, err := s.Search(ctx, search(q, "all", 50))
			if err != nil {
				t.Fatalf("Search(%q): %v", q, err)
			}
			assertIDs(t, "Search("+q+")", got, []string{"ete"})
		}
	})

	t.Run("SearchCategoryNarrowing", func(t *testing.T) {
		s := newStore(t)
		mustCreate(t, s, movie("m", "Dark", "movies", false))
		mustCreate(t, s, movie("t", "Dark", "tv-series", false))

		got, err := s.Search(ctx, search("dark", "movies", 50))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertIDs(t, "movies only", got, []string{"m"})

		got, err = s.Search(ctx, search("dark", "all", 50))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertIDs(t, "all", got, []string{"m", "t"})
	})

	t.Run("SearchLimit", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 5; i++ {
			mustCreate(t, s, movie(fmt.Sprintf("m%d", i), fmt.Sprintf("Dark %d", i), "movies", false))
		}
		got, err := s.Search(ctx, search("dark", "all", 3))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len = %d, want 3", len(got))
		}
	})

	t.Run("SearchWildcardsAreLiteral", func(t *testing.T) {
		s := newStore(t)
		mustCreate(t, s, movie("plain", "Ordinary", "movies", false))
		mustCreate(t, s, movie("pct", "100% Wolf", "movies", false))

		got, err := s.Search(ctx, search("%", "all", 50))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertIDs(t, "percent", got, []string{"pct"})

		got, err = s.Search(ctx, search("_", "all", 50))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		assertIDs(t, "underscore", got, []string{})
	})

	t.Run("UpdateReplacesAllFields", func(t *testing.T) {
		s := newStore(t)
		orig := movie("m", "Dark", "movies", true)
		orig.Genre = []string{"Sci-Fi"}
		orig.Duration = "50 min"
		mustCreate(t, s, orig)

		repl := movie("m", "Dark (2017)", "tv-series", false)
		got, err := s.Update(ctx, repl)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		assertMovieEqual(t, *got, *repl)

		stored, err := s.Get(ctx, "m")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		assertMovieEqual(t, *stored, *repl)
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(ctx, movie("ghost", "X", "movies", false))
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Update(unknown) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		s := newStore(t)
		if err := s.Delete(ctx, "ghost"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Delete(unknown) err = %v, want ErrNotFound", err)
		}
		mustCreate(t, s, movie("m", "Dark", "movies", false))
		if err := s.Delete(ctx, "m"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, "m"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Get after delete err = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "m"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second Delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteAll", func(t *testing.T) {
		s := newStore(t)
		mustCreate(t, s, movie("a", "A", "movies", false))
		mustCreate(t, s, movie("b", "B", "movies", false))
		n, err := s.DeleteAll(ctx)
		if err != nil {
			t.Fatalf("DeleteAll: %v", err)
		}
		if n != 2 {
			t.Errorf("DeleteAll removed %d, want 2", n)
		}
		got, _ := s.List(ctx, models.ListFilter{})
		assertIDs(t, "after DeleteAll", got, []string{})
	})
}

func movie(id, title, category string, trending bool) *models.Movie {
	return &models.Movie{
		ID:           id,
		Title:        title,
		Description:  "description of " + title,
		VideoURL:     "https://videos.example/" + id + ".mp4",
		ThumbnailURL: "https://images.example/" + id + ".jpg",
		Genre:        []string{},
		Category:     category,
		IsTrending:   trending,
	}
}

func search(q, category string, limit int) models.SearchParams {
	return models.SearchParams{Query: q, Category: category, Limit: limit}
}

func mustCreate(t *testing.T, s MovieStore, m *models.Movie) {
	t.Helper()
	if err := s.Create(context.Background(), m); err != nil {
		t.Fatalf("Create(%s): %v", m.ID, err)
	}
}

func assertIDs(t *testing.T, name string, got []models.Movie, want []string) {
	t.Helper()
	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("%s: ids = %v, want %v", name, ids, want)
	}
}

func assertMovieEqual(t *testing.T, got, want models.Movie) {
	t.Helper()
	if fmt.Sprintf("%+v", got) != fmt.Sprintf("%+v", want) {
		t.Errorf("movie mismatch:\n got  %+v\n want %+v", got, want)
	}
}
