package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/constants"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	constants.UploadSceneProduct:      {},
	constants.UploadScenePaymentProof: {},
	constants.UploadSceneListing:      {},
}

// UploadService stores uploaded images under the configured directory,
// partitioned by scene and month.
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates the upload service.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveFile validates and stores one uploaded file, returning its public URL
// path.
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", ErrInvalidUploadType
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the real content type from the head of the file.
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrInvalidUploadType
		}
	}

	normalizedScene := scene
	if _, ok := allowedUploadScenes[normalizedScene]; !ok {
		normalizedScene = constants.UploadSceneProduct
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	now := time.Now()
	savePath := filepath.Join(s.uploadDir(), normalizedScene, now.Format("2006"), now.Format("01"), filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	rel := filepath.ToSlash(filepath.Join(normalizedScene, now.Format("2006"), now.Format("01"), filename))
	base := strings.TrimRight(s.cfg.Upload.PublicBaseURL, "/")
	if base == "" {
		base = "/uploads"
	}
	return base + "/" + rel, nil
}

func (s *UploadService) uploadDir() string {
	if strings.TrimSpace(s.cfg.Upload.Dir) != "" {
		return s.cfg.Upload.Dir
	}
	return "uploads"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, a := range allowed {
		candidate := strings.ToLower(strings.TrimSpace(a))
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if candidate == ext {
			return true
		}
	}
	return false
}
