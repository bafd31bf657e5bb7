package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

const prompt = "Analyze this image. Identify the food item. Return ONLY a valid JSON object with these fields: name (string), calories (number), protein (number), carbs (number), fats (number). Do not wrap in markdown code blocks."

// NetworkFallback is returned when the endpoint is unreachable, too slow
// or replies with an error status.
func NetworkFallback() model.RecognitionResult {
	return model.RecognitionResult{
		Name:     "Simulated Meal (Network/API Error)",
		Calories: 400,
		Protein:  20,
		Carbs:    45,
		Fats:     15,
	}
}

// ParseFallback is returned when the endpoint answers with text that does
// not contain a decodable nutrition object.
func ParseFallback() model.RecognitionResult {
	return model.RecognitionResult{
		Name:     "Detected Food",
		Calories: 250,
		Protein:  10,
		Carbs:    20,
		Fats:     10,
	}
}

// Client calls the multimodal inference endpoint. Analyze never fails:
// every error path degrades to a fixed placeholder so the logging flow
// always completes.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	timeout    time.Duration
	logger     *logger.Logger
}

func NewClient(url, apiKey string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		url:        url,
		apiKey:     apiKey,
		timeout:    timeout,
		logger:     logger,
	}
}

// Wire types for the generative-language endpoint.
type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Loosely typed estimate: the model may answer with fractional numbers.
type estimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Analyze sends the image to the endpoint and returns a nutrition
// estimate, falling back to a placeholder on any failure.
func (c *Client) Analyze(ctx context.Context, image []byte, mimeType string) model.RecognitionResult {
	text, err := c.generate(ctx, image, mimeType)
	if err != nil {
		c.logger.Warn("recognition: request failed, using fallback", "error", err.Error())
		return NetworkFallback()
	}

	return parseEstimate(text, c.logger)
}

func (c *Client) generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := c.url
	if c.apiKey != "" {
		url = fmt.Sprintf("%s?key=%s", c.url, c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response has no candidates")
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// parseEstimate extracts a nutrition object from the reply text. Models
// tend to fence the JSON in markdown despite the prompt.
func parseEstimate(text string, logger *logger.Logger) model.RecognitionResult {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var est estimate
	if err := json.Unmarshal([]byte(clean), &est); err != nil {
		logger.Warn("recognition: unparseable reply, using fallback", "error", err.Error())
		return ParseFallback()
	}

	return model.RecognitionResult{
		Name:     est.Name,
		Calories: clampInt(est.Calories),
		Protein:  clampInt(est.Protein),
		Carbs:    clampInt(est.Carbs),
		Fats:     clampInt(est.Fats),
	}
}

func clampInt(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}
