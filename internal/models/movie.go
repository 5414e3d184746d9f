package models

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no movie exists for the requested ID.
	ErrNotFound = errors.New("movie not found")
	// ErrMissingFields is returned when a required movie field is blank.
	ErrMissingFields = errors.New("missing required fields")
	// ErrQueryRequired is returned when a search is attempted with a blank query.
	ErrQueryRequired = errors.New("search query is required")
)

// Movie represents a catalog entry stored in our database.
type Movie struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Genre        []string `json:"genre"`
	Duration     string   `json:"duration"`
	Category     string   `json:"category"`
	IsTrending   bool     `json:"isTrending"`
}

// MovieInput is the request body for creating or replacing a movie.
// Omitted optional fields collapse to their zero values.
type MovieInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Genre        []string `json:"genre"`
	Duration     string   `json:"duration"`
	Category     string   `json:"category"`
	IsTrending   bool     `json:"isTrending"`
}

// ValidationError lists the required fields that were missing from a request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is lets callers match any ValidationError against ErrMissingFields.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingFields
}

// Validate reports every required field that is blank.
func (in MovieInput) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"videoUrl", in.VideoURL},
		{"thumbnailUrl", in.ThumbnailURL},
		{"category", in.Category},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ToMovie builds the stored record for id, defaulting genre to an empty list.
func (in MovieInput) ToMovie(id string) *Movie {
	genre := in.Genre
	if genre == nil {
		genre = []string{}
	}
	return &Movie{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Genre:        genre,
		Duration:     in.Duration,
		Category:     in.Category,
		IsTrending:   in.IsTrending,
	}
}

// MoviePatch is the request body for a partial update. Nil fields are left unchanged.
type MoviePatch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	VideoURL     *string   `json:"videoUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Genre        *[]string `json:"genre"`
	Duration     *string   `json:"duration"`
	Category     *string   `json:"category"`
	IsTrending   *bool     `json:"isTrending"`
}

// Apply merges the patch onto current and returns the resulting full input.
func (p MoviePatch) Apply(current Movie) MovieInput {
	in := MovieInput{
		Title:        current.Title,
		Description:  current.Description,
		VideoURL:     current.VideoURL,
		ThumbnailURL: current.ThumbnailURL,
		Genre:        current.Genre,
		Duration:     current.Duration,
		Category:     current.Category,
		IsTrending:   current.IsTrending,
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.VideoURL != nil {
		in.VideoURL = *p.VideoURL
	}
	if p.ThumbnailURL != nil {
		in.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Genre != nil {
		in.Genre = *p.Genre
	}
	if p.Duration != nil {
		in.Duration = *p.Duration
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.IsTrending != nil {
		in.IsTrending = *p.IsTrending
	}
	return in
}

// ListFilter holds query parameters for movie listing.
type ListFilter struct {
	Category string
	Trending bool
}

// HasCategory reports whether the filter narrows by category.
func (f ListFilter) HasCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}

// Matches reports whether m passes the filter.
func (f ListFilter) Matches(m Movie) bool {
	if f.HasCategory() && m.Category != f.Category {
		return false
	}
	if f.Trending && !m.IsTrending {
		return false
	}
	return true
}

const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 100
)

// SearchParams holds query parameters for catalog search.
type SearchParams struct {
	Query    string
	Category string
	Limit    int
}

// Validate sets defaults and rejects a blank query.
func (p *SearchParams) Validate(maxLimit int) error {
	if strings.TrimSpace(p.Query) == "" {
		return ErrQueryRequired
	}
	if p.Category == "" {
		p.Category = CategoryAll
	}
	if maxLimit < 1 {
		maxLimit = MaxSearchLimit
	}
	if p.Limit < 1 {
		p.Limit = DefaultSearchLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return nil
}

// HasCategory reports whether the search narrows by category.
func (p SearchParams) HasCategory() bool {
	return p.Category != "" && p.Category != CategoryAll
}

// Matches applies the search rule to m: the query is a case-insensitive
// substring of title or description, or an exact genre tag.
func (p SearchParams) Matches(m Movie) bool {
	if p.HasCategory() && m.Category != p.Category {
		return false
	}
	q := strings.ToLower(p.Query)
	if strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Description), q) {
		return true
	}
	for _, g := range m.Genre {
		if g == p.Query {
			return true
		}
	}
	return false
}
