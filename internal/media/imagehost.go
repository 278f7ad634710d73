package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/salamchy/furniture/pkg/httpclient"
)

// ImageHost is a Storage backed by an HTTP image hosting API. Calls go
// through a circuit breaker so a degraded host fails fast instead of
// stalling catalog writes.
type ImageHost struct {
	client  *httpclient.BreakerClient
	baseURL string
	apiKey  string
}

// NewImageHost creates a client for the image hosting API at baseURL.
func NewImageHost(client *httpclient.BreakerClient, baseURL, apiKey string) *ImageHost {
	return &ImageHost{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type uploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Upload posts the image as multipart form data and returns the hosted URL.
func (h *ImageHost) Upload(ctx context.Context, filename string, content io.Reader) (Upload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Upload{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return Upload{}, fmt.Errorf("copy image content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Upload{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/v1/images", bytes.NewReader(body.Bytes()))
	if err != nil {
		return Upload{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return Upload{}, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Upload{}, fmt.Errorf("upload image: unexpected status %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Upload{}, fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		return Upload{}, fmt.Errorf("upload response missing url")
	}

	return Upload{URL: out.URL, PublicID: out.PublicID}, nil
}

// Delete removes an image from the host. A 404 from the host is treated as
// success so retried deletes stay idempotent.
func (h *ImageHost) Delete(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, h.baseURL+"/v1/images/"+publicID, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete image: unexpected status %d", resp.StatusCode)
	}

	return nil
}
