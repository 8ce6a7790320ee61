package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/afeibuhuifei/project-flow/models"
)

func TestUploadListPreviewDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	other := env.user(t, "bob")
	p := env.project(t, owner, "P")
	task := env.task(t, owner, p.ID, "T")

	files, err := env.files.Upload(ctx, owner, task.ID, []UploadPart{
		{Name: "report.pdf", MimeType: "application/pdf", Content: strings.NewReader("%PDF-1.4")},
		{Name: "shot.png", MimeType: "image/png", Content: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(files) != 2 || files[0].FileSize != 8 || files[0].DownloadURL == "" {
		t.Fatalf("unexpected upload result: %+v", files)
	}

	listed, err := env.files.ListByTask(ctx, owner, task.ID)
	if err != nil {
		t.Fatalf("ListByTask: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("ListByTask: got %d files, want 2", len(listed))
	}
	if _, err := env.files.ListByTask(ctx, other, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListByTask by other: expected ErrNotFound, got %v", err)
	}

	pdf, err := env.files.Preview(ctx, owner, files[0].ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if pdf.IsImage || pdf.FileType != "PDF document" || pdf.PreviewURL != "" {
		t.Errorf("pdf preview: got %+v", pdf)
	}
	img, err := env.files.Preview(ctx, owner, files[1].ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !img.IsImage || img.PreviewURL == "" {
		t.Errorf("image preview: got %+v", img)
	}

	_, f, _, err := env.files.Open(ctx, owner, files[0].ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(f)
	f.Close()
	if string(body) != "%PDF-1.4" {
		t.Errorf("content: got %q", body)
	}
	if _, _, _, err := env.files.Open(ctx, other, files[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open by other: expected ErrNotFound, got %v", err)
	}

	if err := env.files.Delete(ctx, owner, files[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.files.Get(ctx, owner, files[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}

	kinds := env.activities.kinds()
	if kinds[len(kinds)-1] != models.ActivityRemoveDocumentFromTask {
		t.Errorf("last activity: got %s", kinds[len(kinds)-1])
	}
}

func TestUploadRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	other := env.user(t, "bob")
	p := env.project(t, owner, "P")
	task := env.task(t, owner, p.ID, "T")

	part := func(name, mime, body string) UploadPart {
		return UploadPart{Name: name, MimeType: mime, Content: strings.NewReader(body)}
	}
	six := make([]UploadPart, 6)
	for i := range six {
		six[i] = part("a.txt", "text/plain", "a")
	}

	tests := []struct {
		name   string
		user   uint
		taskID uint
		parts  []UploadPart
		field  string
	}{
		{"no files", owner, task.ID, nil, "files"},
		{"too many", owner, task.ID, six, "files"},
		{"bad type", owner, task.ID, []UploadPart{part("x.exe", "application/x-msdownload", "MZ")}, "files"},
		{"too large", owner, task.ID, []UploadPart{part("big.txt", "text/plain", strings.Repeat("x", 1<<20+1))}, "files"},
		{"foreign task", other, task.ID, []UploadPart{part("a.txt", "text/plain", "a")}, "taskId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.files.Upload(ctx, tt.user, tt.taskID, tt.parts)
			if fieldErr(err, tt.field) == "" {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}

	var n int64
	env.db.Model(&models.TaskFile{}).Count(&n)
	if n != 0 {
		t.Errorf("expected no file rows, found %d", n)
	}
}

func TestMimeAllowed(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"text/plain; charset=utf-8", true},
		{"Application/PDF", true},
		{"application/x-msdownload", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := MimeAllowed(tt.mime); got != tt.want {
			t.Errorf("MimeAllowed(%q): got %v, want %v", tt.mime, got, tt.want)
		}
	}
}
