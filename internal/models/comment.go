package models

// Comment is append-only; the post reference is declared but not
// enforced as a storage-level foreign key.
type Comment struct {
	ID                string `gorm:"primaryKey" json:"id"`
	PostID            string `gorm:"not null;index" json:"post_id"`
	AuthorAddressHash string `gorm:"not null" json:"author_address_hash"`
	AuthorUsername    string `gorm:"not null;default:Anonymous" json:"author_username"`
	Content           string `gorm:"not null" json:"content"`
	Timestamp         int64  `gorm:"not null;index" json:"timestamp"`
}

func (Comment) TableName() string {
	return "comments"
}
