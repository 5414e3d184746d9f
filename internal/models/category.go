package models

// CategoryAll is the filter sentinel meaning "no category restriction".
const CategoryAll = "all"

// Category is a browse classification shown in the catalog navigation.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Categories is the known set, in navigation order.
var Categories = []Category{
	{ID: "movies", Label: "Movies"},
	{ID: "tv-series", Label: "TV Series"},
	{ID: "series", Label: "Series"},
	{ID: "documentaries", Label: "Documentaries"},
	{ID: "anime", Label: "Anime"},
	{ID: "kids-family", Label: "Kids & Family"},
	{ID: "originals", Label: "Originals"},
	{ID: "funstar-originals", Label: "Funstar Originals"},
}

// IsKnownCategory reports whether id is one of Categories.
func IsKnownCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
