package models

import "time"

// Post is a social feed entry, optionally wrapping a poll. Likes is the
// only field mutated after creation.
type Post struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	PostIDOnchain     *string   `gorm:"uniqueIndex" json:"post_id_onchain"`
	Content           string    `gorm:"not null" json:"content"`
	ContentHash       string    `gorm:"not null" json:"content_hash"`
	AuthorAddressHash string    `gorm:"not null;index" json:"author_address_hash"`
	AuthorUsername    string    `gorm:"not null;default:Anonymous" json:"author_username"`
	IsPoll            bool      `gorm:"not null;default:false" json:"is_poll"`
	PollID            *string   `gorm:"index" json:"poll_id"`
	Timestamp         int64     `gorm:"not null;index" json:"timestamp"`
	Likes             int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}
