package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/afeibuhuifei/project-flow/services"
)

type FileHandler struct {
	base
	service  *services.FileService
	maxBytes int64
}

func NewFileHandler(service *services.FileService, maxBytes int64, debug bool) *FileHandler {
	return &FileHandler{base: base{debug: debug}, service: service, maxBytes: maxBytes}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes*services.MaxFilesPerUpload+maxJSONBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.badRequest(w, fmt.Sprintf("upload exceeds %d files of %dMB", services.MaxFilesPerUpload, h.maxBytes>>20))
			return
		}
		h.badRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	taskID, err := strconv.ParseUint(r.FormValue("taskId"), 10, 32)
	if err != nil || taskID == 0 {
		h.badRequest(w, "taskId is required")
		return
	}

	headers := r.MultipartForm.File["files"]
	parts := make([]services.UploadPart, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		if fh.Size > h.maxBytes {
			h.badRequest(w, fmt.Sprintf("file size must not exceed %dMB", h.maxBytes>>20))
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.fail(w, r, err, "failed to read upload")
			return
		}
		opened = append(opened, f)
		parts = append(parts, services.UploadPart{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Content:  f,
		})
	}

	files, err := h.service.Upload(r.Context(), currentUserID(r), uint(taskID), parts)
	if err != nil {
		h.fail(w, r, err, "failed to upload files")
		return
	}
	h.success(w, http.StatusCreated, "files uploaded", map[string]interface{}{"files": files})
}

func (h *FileHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskId")
	if err != nil {
		h.badRequest(w, "invalid task id")
		return
	}

	files, err := h.service.ListByTask(r.Context(), currentUserID(r), taskID)
	if err != nil {
		h.fail(w, r, err, "failed to list files")
		return
	}
	h.success(w, http.StatusOK, "files retrieved", map[string]interface{}{"files": files})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "attachment")
}

func (h *FileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("inline") == "1" {
		h.serve(w, r, "inline")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid file id")
		return
	}
	preview, err := h.service.Preview(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to get file preview")
		return
	}
	h.success(w, http.StatusOK, "file preview retrieved", map[string]interface{}{"file": preview})
}

func (h *FileHandler) serve(w http.ResponseWriter, r *http.Request, disposition string) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid file id")
		return
	}

	file, f, info, err := h.service.Open(r.Context(), currentUserID(r), id)
	if err != nil {
		h.fail(w, r, err, "failed to download file")
		return
	}
	defer f.Close()

	if disposition == "inline" && !file.IsImage() {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", contentDisposition(disposition, file.OriginalName))
	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func contentDisposition(kind, name string) string {
	escaped := url.PathEscape(name)
	ascii := strings.Map(func(r rune) rune {
		if r > 127 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`%s; filename="%s"; filename*=UTF-8''%s`, kind, ascii, escaped)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, "invalid file id")
		return
	}

	if err := h.service.Delete(r.Context(), currentUserID(r), id); err != nil {
		h.fail(w, r, err, "failed to delete file")
		return
	}
	h.success(w, http.StatusOK, "file deleted", nil)
}
