package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/souravsatyam/gymapp/internal/logger"
	"github.com/souravsatyam/gymapp/internal/metrics"
)

// TokenSource supplies the persisted bearer token for authenticated calls.
// An empty token means the request goes out unauthenticated; the server is
// expected to reject it and the rejection comes back as KindUnauthorized.
type TokenSource interface {
	Token() string
}

// Client is the single configured HTTP client every remote call goes
// through. The base URL is injected once at startup instead of being
// scattered per call site.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		tokens:  tokens,
		timeout: timeout,
	}
}

// GetJSON issues a GET and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, target)
}

// PostJSON issues a POST with a JSON body and decodes the response into
// target. target may be nil when the caller only cares about the status.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, target interface{}) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return decodeError(err)
		}
		buf = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, nil, "application/json", buf, target)
}

// PostMultipart issues a multipart/form-data POST with one file part plus
// optional form fields.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, target interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return transportError(err)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return transportError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return transportError(err)
	}
	if err := writer.Close(); err != nil {
		return transportError(err)
	}

	return c.do(ctx, http.MethodPost, path, nil, writer.FormDataContentType(), &buf, target)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, target interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return transportError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPIRequest(method, metricPath(path), "error", duration)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transportError(ctxErr)
		}
		return transportError(err)
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(method, metricPath(path), strconv.Itoa(resp.StatusCode), duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			logger.Errorf("Failed to decode %s %s response: %v", method, path, err)
			return decodeError(err)
		}
	}

	return nil
}

// metricPath collapses numeric path segments into :id so the path label
// stays bounded no matter how many entities the user touches.
func metricPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// readErrorMessage pulls a human-readable message out of an error body.
// Servers here answer with either {"error": "..."} or {"message": "..."}.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}
