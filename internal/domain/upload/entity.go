package upload

import "time"

// Upload is a file stored on local disk. Chat attachments and verification
// documents reference it by URL.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID       int64     `gorm:"column:user_id;index;not null" json:"user_id"`
	OriginalName string    `gorm:"column:original_name;size:255" json:"name"`
	FilePath     string    `gorm:"column:file_path;size:512" json:"-"`
	FileURL      string    `gorm:"column:file_url;size:512" json:"url"`
	MimeType     string    `gorm:"column:mime_type;size:100" json:"mime_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	Private      bool      `gorm:"column:private;not null;default:false" json:"private"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
