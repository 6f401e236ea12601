package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL     = "https://api.instadeco.ai"
	renderPath         = "/v1/renders"
	defaultHTTPTimeout = 60 * time.Second
)

// Generator : contrat minimal attendu du fournisseur de génération d'images.
// Les échecs remontent tels quels, sans retry interne.
type Generator interface {
	GenerateStaging(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

type GenerationRequest struct {
	SourceURL string `json:"source_url"`
	Style     string `json:"style"`
	RoomType  string `json:"room_type,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}

type GenerationResult struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}

// Client : client HTTP du fournisseur externe de home staging.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("clé API staging manquante")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}, nil
}

func (c *Client) GenerateStaging(ctx context.Context, genReq GenerationRequest) (*GenerationResult, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(genReq); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+renderPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("staging render status %d", resp.StatusCode)
	}

	var out GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ImageURL == "" {
		return nil, errors.New("réponse du fournisseur sans image")
	}
	return &out, nil
}
