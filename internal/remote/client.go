package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

// Observer receives timing for each outbound call. Implemented by the
// metrics service; nil disables observation.
type Observer interface {
	ObserveOutbound(endpoint string, status int, duration time.Duration)
}

// Client talks to the remote Resulto API. All authenticated calls carry the
// session token as a bearer credential; the token is opaque to the gateway.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// NewClient constructs a Client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, observer Observer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		observer: observer,
		logger:   logger,
	}
}

type authPayload struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsPremium   bool   `json:"isPremium"`
	Token       string `json:"token"`
}

// VerifySession checks a stored token and returns the identity it belongs to.
func (c *Client) VerifySession(ctx context.Context, token string) (*models.UserIdentity, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodGet, "/auth/verify", token, nil, "", &payload); err != nil {
		return nil, err
	}
	return &models.UserIdentity{UID: payload.UID, Email: payload.Email, DisplayName: payload.DisplayName, IsPremium: payload.IsPremium}, nil
}

// ExchangeGoogleToken trades a Google ID token for a session token.
func (c *Client) ExchangeGoogleToken(ctx context.Context, idToken string) (*models.UserIdentity, string, error) {
	body, err := json.Marshal(map[string]string{"id_token": idToken})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode credential exchange")
	}
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/google", "", bytes.NewReader(body), "application/json", &payload); err != nil {
		return nil, "", err
	}
	identity := &models.UserIdentity{UID: payload.UID, Email: payload.Email, DisplayName: payload.DisplayName, IsPremium: payload.IsPremium}
	return identity, payload.Token, nil
}

// RecognizeSheet uploads the result-sheet image for OCR.
func (c *Client) RecognizeSheet(ctx context.Context, token, filename string, image []byte) (*models.OCRResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upload form")
	}
	if _, err := part.Write(image); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write upload form")
	}
	if err := writer.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "close upload form")
	}

	var result models.OCRResult
	if err := c.do(ctx, http.MethodPost, "/ocr", token, body, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateResult asks the rendering service for a result image.
func (c *Client) GenerateResult(ctx context.Context, token string, req models.GenerationRequest) (*models.GenerationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode generation request")
	}
	var resp models.GenerationResponse
	if err := c.do(ctx, http.MethodPost, "/generate", token, bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPayment confirms a checkout reference with the remote service. A
// reachable service that answers non-2xx means the transaction was rejected,
// not that transport failed.
func (c *Client) VerifyPayment(ctx context.Context, token, reference string) error {
	body, err := json.Marshal(map[string]string{"reference": reference})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode payment verification")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment/verify", bytes.NewReader(body))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build payment verification")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("/payment/verify", 0, start)
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "call /payment/verify")
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe("/payment/verify", resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return appErrors.Clone(appErrors.ErrPaymentRejected, "")
	}
	return nil
}

// FetchHistory returns the caller's past generated results.
func (c *Client) FetchHistory(ctx context.Context, token string) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if err := c.do(ctx, http.MethodGet, "/history", token, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchImage downloads an already-generated result image by absolute URL.
// Image hosts sit outside the API base, so the bearer token is not sent.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build image request")
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("image", 0, start)
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "fetch result image")
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe("image", resp.StatusCode, start)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("fetch result image: status %d", resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "read result image")
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, fmt.Sprintf("call %s", endpoint))
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe(endpoint, resp.StatusCode, start)

	if resp.StatusCode == http.StatusUnauthorized {
		return appErrors.Clone(appErrors.ErrVerification, fmt.Sprintf("%s rejected the session token", endpoint))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream call failed", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("%s failed: status %d", endpoint, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, fmt.Sprintf("decode %s response", endpoint))
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOutbound(endpoint, status, time.Since(start))
}
