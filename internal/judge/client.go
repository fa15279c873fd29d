package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

// Submission is one remote job as reported by the judge.
type Submission struct {
	Token         string      `json:"token"`
	Status        StatusField `json:"status"`
	Stdout        *string     `json:"stdout"`
	Stderr        *string     `json:"stderr"`
	CompileOutput *string     `json:"compile_output"`
	ExitCode      *int        `json:"exit_code"`
	Time          *string     `json:"time"`
	Memory        *int        `json:"memory"`
}

type StatusField struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type createRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

type createResponse struct {
	Token string `json:"token"`
}

// StatusError is returned when the judge answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

type Client interface {
	CreateSubmission(ctx context.Context, sourceCode string) (string, error)
	GetSubmission(ctx context.Context, token string) (*Submission, error)
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	APIHost    string
	LanguageID int
	Timeout    time.Duration
}

type httpClient struct {
	baseURL    string
	apiKey     string
	apiHost    string
	languageID int
	http       *http.Client
}

func NewClient(cfg ClientConfig) Client {
	return &httpClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiHost:    cfg.APIHost,
		languageID: cfg.LanguageID,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *httpClient) CreateSubmission(ctx context.Context, sourceCode string) (string, error) {
	payload, err := json.Marshal(createRequest{
		LanguageID: c.languageID,
		SourceCode: sourceCode,
		Stdin:      "",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}

	endpoint := c.baseURL + "/submissions?base64_encoded=false&wait=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created createResponse
	if err := c.do(req, &created); err != nil {
		return "", err
	}
	if created.Token == "" {
		return "", errors.New("judge returned no submission token")
	}
	return created.Token, nil
}

func (c *httpClient) GetSubmission(ctx context.Context, token string) (*Submission, error) {
	endpoint := c.baseURL + "/submissions/" + url.PathEscape(token) + "?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poll request: %w", err)
	}

	submission := new(Submission)
	if err := c.do(req, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (c *httpClient) do(req *http.Request, out any) error {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode judge response: %w", err)
	}
	return nil
}
