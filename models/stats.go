package models

import "time"

// Stats summarizes the loaded dataset. Recomputed per request, never cached.
type Stats struct {
	TotalMatches int `json:"totalMatches"`
	// TotalVideos is the distinct source video count.
	TotalVideos int `json:"totalVideos"`
	// CharacterCounts maps character name to appearances across both
	// player slots, so one match contributes two counts.
	CharacterCounts  map[string]int `json:"characterCounts"`
	LatestDetectedAt *time.Time     `json:"latestDetectedAt,omitempty"`
}

// PresignedURLResponse is returned by the dataset endpoints.
type PresignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}
