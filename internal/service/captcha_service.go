package service

import (
	"time"

	"github.com/purinorder/purinorder/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge is one generated image challenge.
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService guards the admin login with an image captcha.
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService creates the captcha service.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	maxStore := cfg.MaxStore
	if maxStore <= 0 {
		maxStore = 10240
	}
	expire := cfg.ExpireSeconds
	if expire <= 0 {
		expire = 300
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(maxStore, time.Duration(expire)*time.Second),
	}
}

// Enabled reports whether the login requires a captcha.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Generate builds a new digit challenge.
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	length := s.cfg.Length
	if length <= 0 {
		length = 4
	}
	width := s.cfg.Width
	if width <= 0 {
		width = 240
	}
	height := s.cfg.Height
	if height <= 0 {
		height = 80
	}
	driver := base64Captcha.NewDriverDigit(height, width, length, 0.7, s.cfg.ShowLine)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{CaptchaID: id, ImageBase64: b64}, nil
}

// Verify clears the challenge on success; a challenge can only verify once.
func (s *CaptchaService) Verify(id, answer string) error {
	if !s.Enabled() {
		return nil
	}
	if id == "" || answer == "" {
		return ErrCaptchaInvalid
	}
	if !s.store.Verify(id, answer, true) {
		return ErrCaptchaInvalid
	}
	return nil
}
