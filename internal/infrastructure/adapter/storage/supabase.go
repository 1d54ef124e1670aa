package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

// Config holds the Supabase storage connection settings
type Config struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
	RequestTimeout time.Duration
}

// SupabaseStore implements ObjectStore against the Supabase storage REST API.
// Objects live in a single private bucket; access from outside goes through
// signed URLs only.
type SupabaseStore struct {
	config     Config
	httpClient *http.Client
	logger     coreport.Logger
}

// NewSupabaseStore creates a new Supabase-backed object store
func NewSupabaseStore(config Config, logger coreport.Logger) *SupabaseStore {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SupabaseStore{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *SupabaseStore) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s",
		strings.TrimRight(s.config.URL, "/"), s.config.Bucket, strings.TrimLeft(path, "/"))
}

func (s *SupabaseStore) signURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/sign/%s/%s",
		strings.TrimRight(s.config.URL, "/"), s.config.Bucket, strings.TrimLeft(path, "/"))
}

func (s *SupabaseStore) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.config.ServiceRoleKey)
}

// Upload stores data at the given bucket path with the given content type
func (s *SupabaseStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: building upload request: %s", errs.ErrUpstreamStorage, err.Error())
	}
	s.authorize(req)
	req.Header.Set("Content-Type", contentType)
	// Overwrite on redelivered work instead of failing on the duplicate
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Object upload failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrUpstreamStorage, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.Error("Object upload rejected", map[string]any{
			"path":   path,
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return fmt.Errorf("%w: upload returned status %d", errs.ErrUpstreamStorage, resp.StatusCode)
	}

	s.logger.Debug("Object uploaded", map[string]any{
		"path":         path,
		"size_bytes":   len(data),
		"content_type": contentType,
	})
	return nil
}

// Download retrieves the object at path
func (s *SupabaseStore) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building download request: %s", errs.ErrUpstreamStorage, err.Error())
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Object download failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrUpstreamStorage, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Object download rejected", map[string]any{
			"path":   path,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("%w: download returned status %d", errs.ErrUpstreamStorage, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading download body: %s", errs.ErrUpstreamStorage, err.Error())
	}
	return data, nil
}

// Delete removes the object at path, reporting whether it was removed
func (s *SupabaseStore) Delete(ctx context.Context, path string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(path), nil)
	if err != nil {
		return false, fmt.Errorf("%w: building delete request: %s", errs.ErrUpstreamStorage, err.Error())
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Object delete failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrUpstreamStorage, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("%w: delete returned status %d", errs.ErrUpstreamStorage, resp.StatusCode)
	}

	s.logger.Debug("Object deleted", map[string]any{"path": path})
	return true, nil
}

// SignedURL produces a time-limited access URL for a private object
func (s *SupabaseStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]int64{
		"expiresIn": int64(ttl.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding sign request: %s", errs.ErrUpstreamStorage, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.signURL(path), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building sign request: %s", errs.ErrUpstreamStorage, err.Error())
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Signed URL request failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %s", errs.ErrUpstreamStorage, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: sign returned status %d", errs.ErrUpstreamStorage, resp.StatusCode)
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("%w: decoding sign response: %s", errs.ErrUpstreamStorage, err.Error())
	}
	if signed.SignedURL == "" {
		return "", fmt.Errorf("%w: sign response missing URL", errs.ErrUpstreamStorage)
	}

	return strings.TrimRight(s.config.URL, "/") + "/storage/v1" + signed.SignedURL, nil
}
