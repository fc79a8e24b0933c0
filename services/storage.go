package services

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/config"
	"github.com/pfe-hub/capstone-backend/errs"
)

// StoredFile is the stable reference to an uploaded object. PublicID is
// what Delete takes later.
type StoredFile struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Storage is the file backend behind project offer attachments and sprint
// deliverables.
type Storage interface {
	Upload(localPath, folder string) (*StoredFile, error)
	Delete(publicID string) error
}

// CloudinaryStorage uploads to the Cloudinary REST API with signed
// requests.
type CloudinaryStorage struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
	logger    zerolog.Logger
}

func NewCloudinaryStorage(cfg map[string]string) *CloudinaryStorage {
	return &CloudinaryStorage{
		cloudName: config.GetString(cfg, "CLOUDINARY_CLOUD_NAME", ""),
		apiKey:    config.GetString(cfg, "CLOUDINARY_API_KEY", ""),
		apiSecret: config.GetString(cfg, "CLOUDINARY_API_SECRET", ""),
		client:    &http.Client{Timeout: 60 * time.Second},
		logger:    log.With().Str("service", "storage").Logger(),
	}
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes a local file into the given folder and returns its stable
// reference.
func (s *CloudinaryStorage) Upload(localPath, folder string) (*StoredFile, error) {
	if s.cloudName == "" {
		return nil, errs.NewInternalError("file storage is not configured")
	}
	file, err := os.Open(localPath)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to open upload source", err)
	}
	defer file.Close()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
		}
	}
	if err := writer.WriteField("api_key", s.apiKey); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
	}
	if err := writer.WriteField("signature", s.sign(params)); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to read upload source", err)
	}
	if err := writer.Close(); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", s.cloudName)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("storage upload failed", fmt.Errorf("%w: %s", errs.ErrStorageBackend, err))
	}
	defer resp.Body.Close()

	var uploaded cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, errs.NewInternalErrorWithCause("storage upload failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewInternalErrorWithCause("storage upload failed",
			fmt.Errorf("%w: status %d: %s", errs.ErrStorageBackend, resp.StatusCode, uploaded.Error.Message))
	}

	s.logger.Info().Str("publicId", uploaded.PublicID).Msg("file uploaded")
	return &StoredFile{URL: uploaded.SecureURL, PublicID: uploaded.PublicID}, nil
}

// Delete removes a stored object. Callers that replace or clean up files
// treat failures as best-effort and log them.
func (s *CloudinaryStorage) Delete(publicID string) error {
	if s.cloudName == "" {
		return nil
	}
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", s.apiKey)
	form.Set("signature", s.sign(params))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", s.cloudName)
	resp, err := s.client.PostForm(endpoint, form)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrStorageBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", errs.ErrStorageBackend, resp.StatusCode, string(payload))
	}
	s.logger.Info().Str("publicId", publicID).Msg("file deleted")
	return nil
}

// sign produces the request signature Cloudinary expects: the sorted
// key=value pairs joined with &, suffixed with the API secret, hashed with
// SHA-1.
func (s *CloudinaryStorage) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}
