package models

// Spot is a tourist attraction in the searchable catalog. Fire is the view
// popularity counter, Score the editorial rating used for sorting.
type Spot struct {
	SpotID      int64   `json:"spot_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Tag         string  `json:"tag,omitempty"`
	Description string  `json:"description,omitempty"`
	Fire        int64   `json:"fire"`
	Score       float64 `json:"score"`
}

// Interest is one per-user tag counter, bumped every time the user opens a
// journal or spot carrying that tag.
type Interest struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
