package models

// AnonymousOwner keys the favourites of requests with no identified user.
const AnonymousOwner = "anonymous"

// FavouriteIDsResponse is returned after a favourite is added or removed.
type FavouriteIDsResponse struct {
	Owner    string   `json:"owner"`
	MovieIDs []string `json:"movieIds"`
}
