package model

// Match is a candidate image scored against the reference.
type Match struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	NearDuplicate bool    `json:"near_duplicate,omitempty"`
}

// Skipped is a folder entry that could not be scored.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Ranking is the outcome of one similarity query.
type Ranking struct {
	Reference string    `json:"reference"`
	Folder    string    `json:"folder"`
	Random    bool      `json:"random,omitempty"`
	Matches   []Match   `json:"matches"`
	Skipped   []Skipped `json:"skipped,omitempty"`
}
