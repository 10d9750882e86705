package model

import "time"

const (
	PostSourceAnalyze = "analyze"
	PostSourceIngest  = "ingest"
)

// SocialPost is the flat, append-only log of every classified text.
type SocialPost struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Brand      string    `gorm:"type:varchar(100);not null;index" json:"brand"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	City       string    `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Latitude   *float64  `gorm:"index" json:"latitude"`
	Longitude  *float64  `gorm:"index" json:"longitude"`
	Sentiment  string    `gorm:"type:varchar(16);not null;index" json:"sentiment"`
	Confidence float64   `gorm:"not null" json:"confidence"`
	KeyTopic   string    `gorm:"type:varchar(32);not null;default:'other'" json:"key_topic"`
	Source     string    `gorm:"type:varchar(16);not null;default:'analyze'" json:"source"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (SocialPost) TableName() string {
	return "social_posts"
}

// Located reports whether the post carries coordinates.
func (p *SocialPost) Located() bool {
	return p.Latitude != nil && p.Longitude != nil
}
