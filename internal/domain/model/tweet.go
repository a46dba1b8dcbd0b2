package model

import "time"

// Tweet is a single post returned by the tweet-listing passthrough. It is never persisted.
type Tweet struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
