package models

import (
	"fmt"
	"strings"
)

// Surface identifies the court surface a match is played on
type Surface string

const (
	SurfaceHard  Surface = "hard"
	SurfaceClay  Surface = "clay"
	SurfaceGrass Surface = "grass"
)

// Surfaces lists every surface a rating set carries a record for
var Surfaces = []Surface{SurfaceHard, SurfaceClay, SurfaceGrass}

// ParseSurface converts a user supplied surface name into a Surface
func ParseSurface(s string) (Surface, error) {
	switch surface := Surface(strings.ToLower(strings.TrimSpace(s))); surface {
	case SurfaceHard, SurfaceClay, SurfaceGrass:
		return surface, nil
	default:
		return "", fmt.Errorf("%w: unknown surface %q", ErrInvalidInput, s)
	}
}

// Rating defaults for a player seen for the first time
const (
	DefaultRating     = 1300.0
	DefaultDeviation  = 500.0
	DefaultVolatility = 0.045
)

// PlayerRating is a Glicko-2 skill estimate for one player on one surface (or overall)
type PlayerRating struct {
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// NewPlayerRating returns a rating initialised with the defaults
func NewPlayerRating() PlayerRating {
	return PlayerRating{
		Rating:     DefaultRating,
		Deviation:  DefaultDeviation,
		Volatility: DefaultVolatility,
	}
}

// RatingSet holds the overall rating plus one rating per surface for a player
type RatingSet struct {
	Overall  PlayerRating             `json:"overall"`
	Surfaces map[Surface]PlayerRating `json:"surfaces"`
}

// NewRatingSet returns a freshly initialised rating set
func NewRatingSet() RatingSet {
	set := RatingSet{
		Overall:  NewPlayerRating(),
		Surfaces: make(map[Surface]PlayerRating, len(Surfaces)),
	}
	for _, s := range Surfaces {
		set.Surfaces[s] = NewPlayerRating()
	}
	return set
}

// Surface returns the record for the given surface
func (rs RatingSet) Surface(s Surface) PlayerRating {
	if r, ok := rs.Surfaces[s]; ok {
		return r
	}
	return NewPlayerRating()
}

// Clone returns a deep copy so callers cannot mutate store-owned maps
func (rs RatingSet) Clone() RatingSet {
	out := RatingSet{
		Overall:  rs.Overall,
		Surfaces: make(map[Surface]PlayerRating, len(rs.Surfaces)),
	}
	for k, v := range rs.Surfaces {
		out.Surfaces[k] = v
	}
	return out
}
