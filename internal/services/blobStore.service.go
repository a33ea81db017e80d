package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"vistoria/config"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	GITHUB_API_URL       = "https://api.github.com"
	GITHUB_RAW_URL       = "https://raw.githubusercontent.com"
	GITHUB_UPLOAD_PREFIX = "uploads/vistorias"
)

// ErrStorageBackend wraps every failure reported by a blob backend.
var ErrStorageBackend = errors.New("storage backend error")

type StoredBlob struct {
	URL  string
	Path string
}

type BlobStore interface {
	Store(ctx context.Context, data []byte, name string) (StoredBlob, error)
	Delete(ctx context.Context, urlOrPath string) error
}

func NewBlobStore(cfg config.Config) BlobStore {
	if cfg.StorageType == config.StorageGitHub {
		return NewGitHubBlobStore(cfg)
	}
	return NewLocalBlobStore(cfg.UploadDir, cfg.UploadURLPrefix)
}

type LocalBlobStore struct {
	dir       string
	urlPrefix string
	log       logger.Logger
}

func NewLocalBlobStore(dir, urlPrefix string) *LocalBlobStore {
	return &LocalBlobStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		log:       logger.New("localBlobStore"),
	}
}

func (s *LocalBlobStore) Store(ctx context.Context, data []byte, name string) (StoredBlob, error) {
	log := s.log.Function("Store")

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredBlob{}, log.Err("failed to create upload dir", errors.Join(ErrStorageBackend, err), "dir", s.dir)
	}

	name = filepath.Base(name)
	fullPath := filepath.Join(s.dir, name)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return StoredBlob{}, log.Err("failed to write blob", errors.Join(ErrStorageBackend, err), "path", fullPath)
	}

	return StoredBlob{
		URL:  s.urlPrefix + "/" + name,
		Path: fullPath,
	}, nil
}

// Delete removes the file named by the last element of urlOrPath. A missing file is not an error.
func (s *LocalBlobStore) Delete(ctx context.Context, urlOrPath string) error {
	log := s.log.Function("Delete")

	fullPath := filepath.Join(s.dir, path.Base(urlOrPath))
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return log.Err("failed to delete blob", errors.Join(ErrStorageBackend, err), "path", fullPath)
	}

	return nil
}

// GitHubBlobStore keeps blobs in a repository through the contents API.
type GitHubBlobStore struct {
	token  string
	owner  string
	repo   string
	branch string
	apiURL string
	rawURL string
	client *http.Client
	log    logger.Logger
}

func NewGitHubBlobStore(config config.Config) *GitHubBlobStore {
	branch := config.GitHubBranch
	if branch == "" {
		branch = "main"
	}

	return &GitHubBlobStore{
		token:  config.GitHubToken,
		owner:  config.GitHubOwner,
		repo:   config.GitHubRepo,
		branch: branch,
		apiURL: GITHUB_API_URL,
		rawURL: GITHUB_RAW_URL,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger.New("githubBlobStore"),
	}
}

type githubContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

type githubContentResponse struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

func (s *GitHubBlobStore) contentsURL(filePath string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.apiURL, s.owner, s.repo, filePath)
}

func (s *GitHubBlobStore) Store(ctx context.Context, data []byte, name string) (StoredBlob, error) {
	log := s.log.Function("Store")

	filePath := GITHUB_UPLOAD_PREFIX + "/" + path.Base(name)
	body := githubContentRequest{
		Message: "Upload: " + path.Base(name),
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  s.branch,
	}

	if _, err := s.do(ctx, http.MethodPut, s.contentsURL(filePath), body); err != nil {
		return StoredBlob{}, log.Err("failed to upload blob", err, "path", filePath)
	}

	return StoredBlob{
		URL:  fmt.Sprintf("%s/%s/%s/%s/%s", s.rawURL, s.owner, s.repo, s.branch, filePath),
		Path: filePath,
	}, nil
}

var githubRawPath = regexp.MustCompile(`githubusercontent\.com/[^/]+/[^/]+/[^/]+/(.+)$`)

// Delete accepts either the raw URL returned by Store or the repository path.
// A blob that no longer exists is treated as deleted.
func (s *GitHubBlobStore) Delete(ctx context.Context, urlOrPath string) error {
	log := s.log.Function("Delete")

	filePath := urlOrPath
	if match := githubRawPath.FindStringSubmatch(urlOrPath); match != nil {
		filePath = match[1]
	}

	current, err := s.do(ctx, http.MethodGet, s.contentsURL(filePath), nil)
	if err != nil {
		log.Warn("blob not found on github, skipping delete", "path", filePath, "error", err)
		return nil
	}

	body := githubContentRequest{
		Message: "Delete: " + path.Base(filePath),
		SHA:     current.SHA,
		Branch:  s.branch,
	}
	if _, err := s.do(ctx, http.MethodDelete, s.contentsURL(filePath), body); err != nil {
		return log.Err("failed to delete blob", err, "path", filePath)
	}

	return nil
}

func (s *GitHubBlobStore) do(
	ctx context.Context,
	method, url string,
	payload any,
) (*githubContentResponse, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrStorageBackend, err)
	}
	defer resp.Body.Close()

	var decoded githubContentResponse
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: github %s %d: %s", ErrStorageBackend, method, resp.StatusCode, decoded.Message)
	}

	return &decoded, nil
}
