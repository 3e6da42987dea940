package filter

import (
	"douban-top250/config"
	"douban-top250/models"
)

// Filter applies filter criteria to movies
type Filter struct {
	cfg config.FilterConfig
}

// NewFilter creates a new Filter instance
func NewFilter(cfg config.FilterConfig) *Filter {
	return &Filter{
		cfg: cfg,
	}
}

// Apply returns the matching movies in their original order,
// capped at Limit when it is positive
func (f *Filter) Apply(movies []models.Movie) []models.Movie {
	var filtered []models.Movie

	for _, movie := range movies {
		if f.cfg.Limit > 0 && len(filtered) >= f.cfg.Limit {
			break
		}
		if f.matches(movie) {
			filtered = append(filtered, movie)
		}
	}

	return filtered
}

// matches checks if a movie passes the minimum rating
func (f *Filter) matches(movie models.Movie) bool {
	if f.cfg.MinRating <= 0 {
		return true
	}

	// A rating that does not parse cannot prove it clears the bar
	rating, err := movie.Rating()
	if err != nil {
		return false
	}
	return rating >= f.cfg.MinRating
}
