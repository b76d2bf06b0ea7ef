package models

// Review is one Google review shown on the site.
type Review struct {
	AuthorName          string `json:"author_name"`
	Rating              int    `json:"rating"`
	Text                string `json:"text"`
	RelativeTimeDesc    string `json:"relative_time_description,omitempty"`
	ProfilePhotoURL     string `json:"profile_photo_url,omitempty"`
	AuthorURL           string `json:"author_url,omitempty"`
	TimestampUnixEpochs int64  `json:"time,omitempty"`
}

// ReviewData is the venue's aggregate Google rating plus recent reviews.
type ReviewData struct {
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"totalReviews"`
	Reviews      []Review `json:"reviews"`
}
