package model

// Heuristic selects the order in which the solver places points.
type Heuristic string

const (
	HeuristicCentroid       Heuristic = "centroid"        // Distance to the centroid of all points
	HeuristicManhattan      Heuristic = "manhattan"       // Manhattan distance to the centroid
	HeuristicNearestCorner  Heuristic = "nearest-corner"  // Distance to the nearest viewport corner
	HeuristicNearestBorder  Heuristic = "nearest-border"  // Distance to the nearest viewport border point
	HeuristicFarthestCorner Heuristic = "farthest-corner" // Distance to the farthest viewport corner
	HeuristicSizeAscending  Heuristic = "size-asc"        // Smallest weight first
	HeuristicSizeDescending Heuristic = "size-desc"       // Largest weight first
	HeuristicX              Heuristic = "x"               // Raw x coordinate
	HeuristicY              Heuristic = "y"               // Raw y coordinate
	HeuristicAngular        Heuristic = "angular"         // Rotational order around the centroid
	HeuristicMaxCoordinate  Heuristic = "max-coordinate"  // Larger of |dx|, |dy| from the centroid
	HeuristicMinCoordinate  Heuristic = "min-coordinate"  // Smaller of |dx|, |dy| from the centroid
	HeuristicUnordered      Heuristic = "unordered"       // Input order
)

// AllHeuristics lists every supported ordering.
var AllHeuristics = []Heuristic{
	HeuristicCentroid,
	HeuristicManhattan,
	HeuristicNearestCorner,
	HeuristicNearestBorder,
	HeuristicFarthestCorner,
	HeuristicSizeAscending,
	HeuristicSizeDescending,
	HeuristicX,
	HeuristicY,
	HeuristicAngular,
	HeuristicMaxCoordinate,
	HeuristicMinCoordinate,
	HeuristicUnordered,
}

// Valid reports whether h names a known heuristic.
func (h Heuristic) Valid() bool {
	for _, known := range AllHeuristics {
		if h == known {
			return true
		}
	}
	return false
}

// Settings holds the solver configuration.
type Settings struct {
	Heuristic Heuristic `json:"heuristic" toml:"heuristic"`

	// RootScale is the factor by which the instance extent is grown to form the
	// quad-tree root box.
	RootScale float64 `json:"root_scale" toml:"root_scale"`

	// MaxAttempts bounds how often a single point is requeued after a merge.
	MaxAttempts int `json:"max_attempts" toml:"max_attempts"`

	// CandidatesPerOutline bounds the projected placements tried per outline,
	// 0 tries all of them.
	CandidatesPerOutline int `json:"candidates_per_outline" toml:"candidates_per_outline"`

	// SanitizeBuffers runs the sweep-line cleanup on every buffered outline.
	SanitizeBuffers bool `json:"sanitize_buffers" toml:"sanitize_buffers"`

	// SolutionTag is written as the first line of solution files.
	SolutionTag int `json:"solution_tag" toml:"solution_tag"`
}

// DefaultSettings returns the settings used when no config file is present.
func DefaultSettings() Settings {
	return Settings{
		Heuristic:            HeuristicCentroid,
		RootScale:            41,
		MaxAttempts:          64,
		CandidatesPerOutline: 0,
		SanitizeBuffers:      true,
		SolutionTag:          1,
	}
}

// Normalize replaces out-of-range values with their defaults.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if !s.Heuristic.Valid() {
		s.Heuristic = d.Heuristic
	}
	if s.RootScale < 1 {
		s.RootScale = d.RootScale
	}
	if s.MaxAttempts < 1 {
		s.MaxAttempts = d.MaxAttempts
	}
	if s.CandidatesPerOutline < 0 {
		s.CandidatesPerOutline = 0
	}
	return s
}
