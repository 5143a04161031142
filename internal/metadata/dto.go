package metadata

// Wire shapes for the external metadata provider

type searchResponse struct {
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
	Results      []movieResultDTO `json:"results"`
}

type movieResultDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieDetailDTO struct {
	ID          int        `json:"id"`
	IMDBID      string     `json:"imdb_id"`
	Title       string     `json:"title"`
	ReleaseDate string     `json:"release_date"`
	PosterPath  string     `json:"poster_path"`
	Overview    string     `json:"overview"`
	VoteAverage float64    `json:"vote_average"`
	Genres      []genreDTO `json:"genres"`
}
