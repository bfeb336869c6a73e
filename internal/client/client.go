// Package client calls the conversion service over HTTP.
package client

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
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single conversion call
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 64 << 20

// Request is the POST /convert payload
type Request struct {
	Contents     string `json:"contents"`
	InputFormat  string `json:"input_format,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

// Response is the union of the text and file response bodies
type Response struct {
	Message           string `json:"message"`
	ConvertedContent  string `json:"converted_content,omitempty"`
	FileContentBase64 string `json:"file_content_base64,omitempty"`
	OutputFormat      string `json:"output_format,omitempty"`
}

// IsFile reports whether the service returned binary file content
func (r *Response) IsFile() bool {
	return r.FileContentBase64 != ""
}

// Decode returns the response payload as bytes: decoded file content for
// file-class output, the converted text otherwise.
func (r *Response) Decode() ([]byte, error) {
	if r.IsFile() {
		data, err := base64.StdEncoding.DecodeString(r.FileContentBase64)
		if err != nil {
			return nil, fmt.Errorf("decode file content: %w", err)
		}
		return data, nil
	}
	return []byte(r.ConvertedContent), nil
}

// ServiceError is a non-200 reply from the service
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("conversion service returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running conversion service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. baseURL may be the service root or the full
// /convert URL; both are accepted.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("conversion service URL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/convert")

	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// Convert posts a conversion request and returns the decoded response
func (c *Client) Convert(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call conversion service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.IsFile() && out.ConvertedContent == "" && out.Message == "" {
		return nil, errors.New("conversion service returned no usable content")
	}
	return &out, nil
}

// Health checks GET /health
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call conversion service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

// SaveOutput writes the response payload to path, creating parent directories
func SaveOutput(resp *Response, path string) error {
	data, err := resp.Decode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
