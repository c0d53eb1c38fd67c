package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coursecraft-cli/internal/logger"
	"coursecraft-cli/internal/model"
)

const (
	defaultResponseLimit int64 = 1 << 20
	// Full lessons for a long course run well past the default.
	lessonsResponseLimit int64 = 16 << 20
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int

	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks to the remote content-generation service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	log        *logger.Logger
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
		log:        logger.OrNop(opts.Logger).With("component", "genclient"),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// GenerateCoursePlan asks the service for a lesson plan (titles, objectives and
// topic skeletons, no content).
func (c *Client) GenerateCoursePlan(ctx context.Context, req CoursePlanRequest) (CoursePlan, error) {
	if strings.TrimSpace(req.CourseName) == "" {
		return CoursePlan{}, errors.New("course name required")
	}
	if req.NumberOfLessons <= 0 {
		return CoursePlan{}, errors.New("number of lessons must be positive")
	}
	var resp CoursePlan
	if err := c.doJSON(ctx, http.MethodPost, "/generate_course_plan", req, &resp); err != nil {
		return CoursePlan{}, err
	}
	return resp, nil
}

// GenerateLessons fills a plan with content. The service answers with either a
// bare array of lessons or an object wrapping one under "lessons" or "course".
func (c *Client) GenerateLessons(ctx context.Context, plan CoursePlan) ([]LessonDoc, error) {
	var raw json.RawMessage
	if err := c.doJSONLimit(ctx, http.MethodPost, "/generate_lessons", generateLessonsRequest{CoursePlan: plan}, &raw, lessonsResponseLimit); err != nil {
		return nil, err
	}
	return DecodeLessons(raw)
}

// DecodeLessons accepts the shapes /generate_lessons is known to return.
func DecodeLessons(raw []byte) ([]LessonDoc, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty lessons document")
	}
	if trimmed[0] == '[' {
		var out []LessonDoc
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode lessons: %w", err)
		}
		return out, nil
	}
	var env struct {
		Lessons []LessonDoc `json:"lessons"`
		Course  []LessonDoc `json:"course"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	if env.Lessons != nil {
		return env.Lessons, nil
	}
	return env.Course, nil
}

func endpointFor(kind model.OpKind) (string, error) {
	switch kind {
	case model.OpRegenerate:
		return "/regenerate_topic", nil
	case model.OpExpand:
		return "/expand_topic", nil
	case model.OpShorten:
		return "/shorten_topic", nil
	default:
		return "", fmt.Errorf("operation %q does not edit content", kind)
	}
}

// EditContent sends one node's text to the regenerate/expand/shorten endpoint
// and returns the replacement text.
func (c *Client) EditContent(ctx context.Context, kind model.OpKind, content string) (string, error) {
	path, err := endpointFor(kind)
	if err != nil {
		return "", err
	}
	var resp contentResponse
	if err := c.doJSON(ctx, http.MethodPost, path, contentRequest{Content: content}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyContent
	}
	return resp.Content, nil
}

// FactCheck submits a topic (with its subtopics) for verification.
func (c *Client) FactCheck(ctx context.Context, topic model.Topic) ([]model.FactCheck, error) {
	req := factCheckRequest{
		Title:     topic.Title,
		Content:   topic.Content,
		Subtopics: make([]SubtopicDoc, 0, len(topic.Subtopics)),
	}
	for _, s := range topic.Subtopics {
		req.Subtopics = append(req.Subtopics, SubtopicDoc{Title: s.Title, Content: s.Content})
	}
	var resp []FactCheckResult
	if err := c.doJSON(ctx, http.MethodPost, "/fact_checking", req, &resp); err != nil {
		return nil, err
	}
	out := make([]model.FactCheck, 0, len(resp))
	for _, r := range resp {
		out = append(out, model.FactCheck{
			Fact:       r.Fact,
			Status:     r.Status,
			Similarity: r.BestSimilarity,
			Source:     r.BestSource,
			Excerpt:    r.Text,
		})
	}
	return out, nil
}

// ---------------- HTTP helpers ----------------

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	return c.doJSONLimit(ctx, method, path, body, out, defaultResponseLimit)
}

func (c *Client) doJSONLimit(ctx context.Context, method string, path string, body any, out any, limit int64) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	log := c.log.With("method", method, "path", path)
	log.Debug("request start")

	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx2.Err() != nil {
			return ctx2.Err()
		}

		req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		retry := true
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, limit+1))
			_ = resp.Body.Close()
			if readErr != nil {
				return readErr
			}
			if int64(len(raw)) > limit {
				return &ResponseTooLargeError{Path: path, Limit: limit}
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				herr := parseHTTPError(resp.StatusCode, raw)
				lastErr = herr
				var he *HTTPError
				retry = errors.As(herr, &he) && he.Retryable()
			} else {
				log.Debug("request done", "status", resp.StatusCode, "attempts", attempt+1, "duration", time.Since(start))
				if out == nil {
					return nil
				}
				if err := json.Unmarshal(raw, out); err != nil {
					return fmt.Errorf("decode %s response: %w", path, err)
				}
				return nil
			}
		}

		if !retry || attempt >= c.maxRetries {
			break
		}
		log.Warn("request failed, retrying", "attempt", attempt+1, "error", lastErr)
		select {
		case <-ctx2.Done():
			return ctx2.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	log.Warn("request failed", "error", lastErr, "duration", time.Since(start))
	return lastErr
}
