package models

import "time"

// Side is the screen position a player occupied in the source video.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s is one of the two recognized side values.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Player is one participant of a detected match.
type Player struct {
	// Character is the normalized character name.
	Character string `json:"character"`
	// CharacterRaw is the unnormalized detector (OCR) output.
	CharacterRaw string `json:"characterRaw"`
	Side         Side   `json:"side"`
}

// Match is one detected head-to-head occurrence within a source video.
// ID is derived as videoId + "_" + startTime upstream, so it is stable
// across reloads without being stored independently.
type Match struct {
	ID               string    `json:"id"`
	VideoID          string    `json:"videoId"`
	VideoTitle       string    `json:"videoTitle"`
	VideoPublishedAt time.Time `json:"videoPublishedAt"`
	// StartTime and EndTime are offsets in seconds into the video.
	// EndTime is nil when the detector did not find the end of the match.
	StartTime float64  `json:"startTime"`
	EndTime   *float64 `json:"endTime,omitempty"`
	Player1   Player   `json:"player1"`
	Player2   Player   `json:"player2"`
	// DetectedAt is when the detection pipeline produced this record.
	DetectedAt time.Time `json:"detectedAt"`
	// Confidence is the detector score in [0,1]. Used for ordering only.
	Confidence float64 `json:"confidence"`
}
