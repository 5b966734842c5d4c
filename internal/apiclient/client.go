// Package apiclient is a client for the remote users REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultHTTPTimeout = 10 * time.Second

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 64 << 10

	tokenHeader = "Token"
)

// Config contains configuration for Client.
type Config struct {
	// BaseURL is the versioned API root, e.g. https://host/api/v1.
	BaseURL string

	// Timeout bounds every request when HTTPClient is nil.
	Timeout time.Duration

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client

	Logger *logrus.Entry
}

// Client talks to the users API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger.WithField("component", "apiclient"),
	}
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, page, count int) (*UsersPage, error) {
	const op = "list users"

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out UsersPage
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"page":        out.Page,
		"total_pages": out.TotalPages,
		"users":       len(out.Users),
	}).Debug("users page fetched")

	return &out, nil
}

// ListPositions returns the positions a new user can choose from.
func (c *Client) ListPositions(ctx context.Context) ([]Position, error) {
	const op = "list positions"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out positionsResponse
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}

	return out.Positions, nil
}

// FetchToken acquires a one-time token required by SubmitUser.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	const op = "fetch token"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var out tokenResponse
	if err := c.do(op, req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &NetworkError{Op: op, Err: errors.New("empty token in response")}
	}

	return out.Token, nil
}

// SubmitUser creates a user from s, authorized by a token from FetchToken.
// The API only answers with the new id, so the returned User carries that id
// together with the submitted fields.
func (c *Client) SubmitUser(ctx context.Context, s Submission, token string) (*User, error) {
	const op = "submit user"

	body, contentType, err := encodeSubmission(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(tokenHeader, token)

	var out createUserResponse
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}

	c.logger.WithField("user_id", out.UserID).Info("user registered")

	return &User{
		ID:         out.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Phone:      s.Phone,
		PositionID: s.PositionID,
	}, nil
}

func (c *Client) do(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// decodeFailure maps a non-2xx response onto the error taxonomy.
func decodeFailure(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope errorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = strings.TrimSpace(string(raw))
	}
	if envelope.Message == "" {
		envelope.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: envelope.Message}
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Status: resp.StatusCode, Message: envelope.Message, Fails: envelope.Fails}
	case resp.StatusCode >= 500:
		return &NetworkError{Op: op, Err: fmt.Errorf("server responded %d: %s", resp.StatusCode, envelope.Message)}
	default:
		return &StatusError{Status: resp.StatusCode, Message: envelope.Message}
	}
}

func encodeSubmission(s Submission) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"name", s.Name},
		{"email", s.Email},
		{"phone", s.Phone},
		{"position_id", strconv.Itoa(s.PositionID)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	filename := s.Photo.Filename
	if filename == "" {
		filename = "photo.jpg"
	}
	contentType := s.Photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(s.Photo.Data); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
