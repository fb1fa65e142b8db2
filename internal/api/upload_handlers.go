package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/google/uuid"
)

const (
	maxUploadFiles  = 10
	maxUploadMemory = 32 << 20
)

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadedFile describes a file the mock CDN pretends to host.
type UploadedFile struct {
	ID           string  `json:"id"`
	OriginalName string  `json:"originalName"`
	MimeType     string  `json:"mimeType"`
	Size         int64   `json:"size"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	UploadedAt   string  `json:"uploadedAt"`
}

// UploadedImage adds the resized variants reported for image uploads.
type UploadedImage struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	MediumURL    string `json:"mediumUrl"`
	LargeURL     string `json:"largeUrl"`
	UploadedAt   string `json:"uploadedAt"`
}

// UploadHandlers accept multipart uploads and discard the content, answering
// with fabricated CDN URLs.
type UploadHandlers struct {
	cdnBaseURL string
	now        func() time.Time
	newID      func() string
}

func NewUploadHandlers(cdnBaseURL string) *UploadHandlers {
	return &UploadHandlers{
		cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SingleHandler accepts one file
// POST /api/upload/single (field "file")
func (uh *UploadHandlers) SingleHandler(w http.ResponseWriter, r *http.Request) {
	files, err := formFiles(r, "file")
	if err != nil {
		apierr.Write(w, err)
		return
	}
	if len(files) == 0 {
		apierr.Write(w, apierr.BadRequest("No file provided"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "File uploaded successfully",
		"file":    uh.describe(files[0]),
	})
}

// MultipleHandler accepts up to ten files
// POST /api/upload/multiple (field "files", at most 10)
func (uh *UploadHandlers) MultipleHandler(w http.ResponseWriter, r *http.Request) {
	files, err := formFiles(r, "files")
	if err != nil {
		apierr.Write(w, err)
		return
	}
	if len(files) == 0 {
		apierr.Write(w, apierr.BadRequest("No files provided"))
		return
	}
	if len(files) > maxUploadFiles {
		apierr.Write(w, apierr.BadRequest("Too many files. Maximum is %d", maxUploadFiles))
		return
	}

	uploaded := make([]UploadedFile, len(files))
	for i, fh := range files {
		uploaded[i] = uh.describe(fh)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Files uploaded successfully",
		"totalFiles": len(uploaded),
		"files":      uploaded,
	})
}

// ImageHandler accepts one image and reports its resized variants
// POST /api/upload/image (field "image", jpeg/png/gif/webp)
func (uh *UploadHandlers) ImageHandler(w http.ResponseWriter, r *http.Request) {
	files, err := formFiles(r, "image")
	if err != nil {
		apierr.Write(w, err)
		return
	}
	if len(files) == 0 {
		apierr.Write(w, apierr.BadRequest("No image provided"))
		return
	}

	fh := files[0]
	mimeType := contentType(fh)
	if !slices.Contains(imageMimeTypes, mimeType) {
		apierr.Write(w, apierr.BadRequest("Invalid image type. Allowed: jpg, png, gif, webp"))
		return
	}

	id := uh.newID()
	base := uh.cdnBaseURL + "/images/" + id
	_, subtype, _ := strings.Cut(mimeType, "/")

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Image uploaded successfully",
		"image": UploadedImage{
			ID:           id,
			OriginalName: fh.Filename,
			MimeType:     mimeType,
			Size:         fh.Size,
			URL:          base + "/original." + subtype,
			ThumbnailURL: base + "/thumbnail.jpg",
			MediumURL:    base + "/medium.jpg",
			LargeURL:     base + "/large.jpg",
			UploadedAt:   models.Timestamp(uh.now()),
		},
	})
}

func (uh *UploadHandlers) describe(fh *multipart.FileHeader) UploadedFile {
	id := uh.newID()
	mimeType := contentType(fh)

	file := UploadedFile{
		ID:           id,
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         fh.Size,
		URL:          uh.cdnBaseURL + "/uploads/" + id + "/" + url.PathEscape(fh.Filename),
		UploadedAt:   models.Timestamp(uh.now()),
	}
	if strings.HasPrefix(mimeType, "image/") {
		thumb := uh.cdnBaseURL + "/thumbnails/" + id + ".jpg"
		file.ThumbnailURL = &thumb
	}
	return file
}

// formFiles returns the file parts posted under field. A request that is not
// multipart carries no files.
func formFiles(r *http.Request, field string) ([]*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apierr.BadRequest("Invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	return r.MultipartForm.File[field], nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
