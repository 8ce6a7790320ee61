package models

import "time"

type TaskFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	FilePath     string    `gorm:"size:500;not null" json:"-"`
	FileSize     int64     `gorm:"not null" json:"fileSize"`
	MimeType     string    `gorm:"size:100;not null" json:"mimeType"`
	TaskID       uint      `gorm:"not null;index" json:"taskId"`
	UploadedBy   uint      `gorm:"not null;index" json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Task     *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Uploader *User `gorm:"foreignKey:UploadedBy;constraint:OnDelete:CASCADE" json:"uploader,omitempty"`

	DownloadURL string `gorm:"-" json:"downloadUrl,omitempty"`
}

// IsImage reports whether the browser can render the file inline.
func (f *TaskFile) IsImage() bool {
	return len(f.MimeType) > 6 && f.MimeType[:6] == "image/"
}
