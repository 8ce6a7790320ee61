package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/storage"
	"github.com/afeibuhuifei/project-flow/utils"
)

const MaxFilesPerUpload = 5

var allowedMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain":                   true,
	"text/csv":                     true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
	"text/javascript":              true,
	"application/json":             true,
	"text/html":                    true,
	"text/css":                     true,
	"application/xml":              true,
	"text/xml":                     true,
}

var fileTypeDescriptions = map[string]string{
	"application/pdf":    "PDF document",
	"application/msword": "Word document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "Word document",
	"application/vnd.ms-excel": "Excel spreadsheet",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "Excel spreadsheet",
	"text/plain":      "Text file",
	"application/zip": "Archive",
}

// UploadPart is one file of a multipart upload.
type UploadPart struct {
	Name     string
	MimeType string
	Content  io.Reader
}

type FilePreview struct {
	ID           uint      `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt"`
	IsImage      bool      `json:"isImage"`
	PreviewURL   string    `json:"previewUrl,omitempty"`
	FileType     string    `json:"fileType,omitempty"`
}

type FileService struct {
	db       *gorm.DB
	store    interfaces.FileStore
	activity *ActivityFeed
	maxBytes int64
	now      func() time.Time
}

func NewFileService(db *gorm.DB, store interfaces.FileStore, activity *ActivityFeed, maxBytes int64) *FileService {
	return &FileService{db: db, store: store, activity: activity, maxBytes: maxBytes, now: time.Now}
}

func DownloadURL(id uint) string {
	return fmt.Sprintf("/api/files/download/%d", id)
}

func PreviewURL(id uint) string {
	return fmt.Sprintf("/api/files/preview/%d?inline=1", id)
}

// MimeAllowed reports whether uploads of this type are accepted.
func MimeAllowed(mime string) bool {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return allowedMimeTypes[strings.ToLower(strings.TrimSpace(mime))]
}

func (s *FileService) Upload(ctx context.Context, userID, taskID uint, parts []UploadPart) ([]models.TaskFile, error) {
	v := &validator{}
	v.check(taskID > 0, "taskId", "taskId is required")
	v.check(len(parts) > 0, "files", "no files uploaded")
	v.check(len(parts) <= MaxFilesPerUpload, "files", fmt.Sprintf("at most %d files per upload", MaxFilesPerUpload))
	for _, p := range parts {
		if !MimeAllowed(p.MimeType) {
			v.add("files", fmt.Sprintf("unsupported file type %q", p.MimeType))
			break
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	task, err := findOwnedTask(ctx, s.db, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("taskId", "task not found or access denied")
		}
		return nil, err
	}

	var saved []string
	records := make([]models.TaskFile, 0, len(parts))
	for _, p := range parts {
		name := utils.StoredFileName(p.Name, s.now())
		path, size, err := s.store.Save(name, p.Content, s.maxBytes)
		if err != nil {
			removeFiles(s.store, saved)
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, invalid("files", fmt.Sprintf("file size must not exceed %dMB", s.maxBytes>>20))
			}
			return nil, err
		}
		saved = append(saved, path)
		records = append(records, models.TaskFile{
			Filename:     name,
			OriginalName: p.Name,
			FilePath:     path,
			FileSize:     size,
			MimeType:     p.MimeType,
			TaskID:       taskID,
			UploadedBy:   userID,
		})
	}

	if err := s.db.WithContext(ctx).Omit("Task", "Uploader").Create(&records).Error; err != nil {
		removeFiles(s.store, saved)
		return nil, err
	}

	for i := range records {
		records[i].DownloadURL = DownloadURL(records[i].ID)
		s.activity.Record(ctx, task.ProjectID, userID, models.ActivityAddDocumentToTask, &task.ID,
			fmt.Sprintf("File %q added to task %q", records[i].OriginalName, task.Title))
	}
	logging.Logger.Infof("Event ID: FILES_UPLOADED, Description: %d files uploaded to task %d by user %d", len(records), taskID, userID)
	return records, nil
}

func (s *FileService) ListByTask(ctx context.Context, userID, taskID uint) ([]models.TaskFile, error) {
	if _, err := findOwnedTask(ctx, s.db, userID, taskID); err != nil {
		return nil, err
	}

	files := []models.TaskFile{}
	err := s.db.WithContext(ctx).Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("created_at DESC").Order("id DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].DownloadURL = DownloadURL(files[i].ID)
	}
	return files, nil
}

// Get returns a file row reachable through one of the caller's projects.
func (s *FileService) Get(ctx context.Context, userID, fileID uint) (*models.TaskFile, error) {
	var file models.TaskFile
	err := s.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_files.task_id").
		Scopes(ownedTasks(userID)).
		First(&file, fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("file not found")
	}
	if err != nil {
		return nil, err
	}
	file.DownloadURL = DownloadURL(file.ID)
	return &file, nil
}

// Open returns the file row and its contents. The caller closes the file.
func (s *FileService) Open(ctx context.Context, userID, fileID uint) (*models.TaskFile, *os.File, os.FileInfo, error) {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return nil, nil, nil, err
	}
	f, info, err := s.store.Open(file.FilePath)
	if errors.Is(err, storage.ErrMissing) {
		return nil, nil, nil, notFound("file has been removed")
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return file, f, info, nil
}

func (s *FileService) Preview(ctx context.Context, userID, fileID uint) (*FilePreview, error) {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	preview := &FilePreview{
		ID:           file.ID,
		Filename:     file.Filename,
		OriginalName: file.OriginalName,
		FileSize:     file.FileSize,
		MimeType:     file.MimeType,
		UploadedAt:   file.CreatedAt,
		IsImage:      file.IsImage(),
	}
	if preview.IsImage {
		preview.PreviewURL = PreviewURL(file.ID)
	} else if desc, ok := fileTypeDescriptions[file.MimeType]; ok {
		preview.FileType = desc
	} else {
		preview.FileType = "Unknown type"
	}
	return preview, nil
}

// Delete removes the row first and then the stored file, ignoring a file
// that is already gone.
func (s *FileService) Delete(ctx context.Context, userID, fileID uint) error {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.TaskFile{}, file.ID).Error; err != nil {
		return err
	}
	removeFiles(s.store, []string{file.FilePath})

	var task models.Task
	if err := s.db.WithContext(ctx).Select("id", "project_id", "title").First(&task, file.TaskID).Error; err == nil {
		s.activity.Record(ctx, task.ProjectID, userID, models.ActivityRemoveDocumentFromTask, &task.ID,
			fmt.Sprintf("File %q removed from task %q", file.OriginalName, task.Title))
	}
	logging.Logger.Infof("Event ID: FILE_DELETED, Description: File %d deleted by user %d", fileID, userID)
	return nil
}
