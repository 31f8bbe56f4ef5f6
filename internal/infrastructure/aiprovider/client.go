package aiprovider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"alethiq-server/services/chat-api/internal/domain/chat"
)

// streamPath is the inference backend's chunked generation endpoint.
const streamPath = "/query-stream"

// Client talks to the Python inference service. One instance is constructed
// at startup and shared for the process lifetime; it holds no per-request
// state.
type Client struct {
	httpClient   *resty.Client
	streamClient *http.Client
	baseURL      string
	mode         string
}

// NewClient creates the shared inference backend client.
func NewClient(baseURL, mode string, streamTimeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		streamClient: &http.Client{Timeout: streamTimeout},
		baseURL:      baseURL,
		mode:         mode,
	}
}

// streamRequest is the outbound body for the generation endpoint. The mode is
// a fixed operating parameter, never caller-controlled.
type streamRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

// StreamQuery opens one streaming call for the given query. Any non-success
// status is a stream-terminating error; no retries are attempted.
func (c *Client) StreamQuery(ctx context.Context, query string) (chat.Stream, error) {
	body, err := json.Marshal(streamRequest{Query: query, Mode: c.mode})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("inference backend error: %d %s", resp.StatusCode, string(detail))
	}

	return &answerStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
	}, nil
}

// Health probes the inference backend root endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpClient.R().SetContext(ctx).Get("/")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("inference backend unhealthy: %s", resp.Status())
	}
	return nil
}

// Ensure interface compliance.
var _ chat.Provider = (*Client)(nil)

// answerStream yields the response body as raw newline-delimited records, in
// arrival order and without any reframing; decoding is the caller's concern.
type answerStream struct {
	resp   *http.Response
	reader *bufio.Reader
}

func (s *answerStream) Recv() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			// Final record without a trailing newline.
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func (s *answerStream) Close() error {
	if s.resp != nil && s.resp.Body != nil {
		return s.resp.Body.Close()
	}
	return nil
}
