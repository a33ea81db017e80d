package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrTransient marks failures worth retrying on a later drain: network errors,
// timeouts and 5xx/429 responses.
var ErrTransient = errors.New("transient network error")

// RemoteError is a response the server produced on purpose, such as a 400 for a
// finalized inspection.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected request: %d %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests {
		return ErrTransient
	}
	return nil
}

// RemoteAPI is the subset of the server the sync engine replays against.
type RemoteAPI interface {
	CreateInspection(ctx context.Context, payload InspectionPayload) (uuid.UUID, error)
	UpdateItem(ctx context.Context, inspectionID, itemID uuid.UUID, payload ItemPayload) error
	UploadPhoto(ctx context.Context, itemID uuid.UUID, data []byte, caption string) error
	Health(ctx context.Context) error
}

type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
	log     logger.Logger
}

var _ RemoteAPI = (*APIClient)(nil)

func NewAPIClient(baseURL, token string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     logger.New("offline").File("client"),
	}
}

func (c *APIClient) CreateInspection(ctx context.Context, payload InspectionPayload) (uuid.UUID, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, err
	}

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	err = c.send(ctx, http.MethodPost, "/api/inspections", "application/json", bytes.NewReader(body), &created)
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

func (c *APIClient) UpdateItem(
	ctx context.Context,
	inspectionID, itemID uuid.UUID,
	payload ItemPayload,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/api/inspections/%s/items/%s", inspectionID, itemID)
	return c.send(ctx, http.MethodPut, path, "application/json", bytes.NewReader(body), nil)
}

func (c *APIClient) UploadPhoto(ctx context.Context, itemID uuid.UUID, data []byte, caption string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("photo", "photo"+mimetype.Detect(data).Extension())
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/api/upload/photo/%s", itemID)
	return c.send(ctx, http.MethodPost, path, writer.FormDataContentType(), body, nil)
}

func (c *APIClient) Health(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/api/health", "", nil, nil)
}

func (c *APIClient) send(
	ctx context.Context,
	method, path, contentType string,
	body io.Reader,
	out any,
) error {
	log := c.log.Function("send")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Trace-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var failure struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &failure) != nil || failure.Error == "" {
			failure.Error = strings.TrimSpace(string(raw))
		}
		return &RemoteError{Status: resp.StatusCode, Message: failure.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrTransient, method, path, err)
	}
	return nil
}
