// Package ocr extracts text from homework photos and carves it into
// candidate questions.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Result is the raw OCR outcome: the full recognized text and an aggregate
// confidence in [0,1].
type Result struct {
	Text       string
	Confidence float64
}

// Client is the OCR collaborator contract. The production implementation
// calls a Vision-style REST endpoint; tests substitute fakes.
type Client interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}

// tokenDefaultConfidence is assumed for annotations that carry no score.
const tokenDefaultConfidence = 0.7

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionEntry struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionRequest struct {
	Requests []visionEntry `json:"requests"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string  `json:"description"`
			Confidence  float64 `json:"confidence"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// VisionClient talks to a Google-Vision-compatible text detection endpoint.
type VisionClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewVisionClient(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *VisionClient {
	return &VisionClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Recognize submits the image and averages token confidences, skipping the
// first annotation, which is the whole-text block rather than a token.
func (c *VisionClient) Recognize(ctx context.Context, image []byte) (Result, error) {
	reqBody := visionRequest{Requests: []visionEntry{{
		Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
		Features: []visionFeature{{Type: "TEXT_DETECTION"}},
	}}}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("ocr: encode request: %w", err)
	}

	url := c.endpoint
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("ocr: call endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Result{}, fmt.Errorf("ocr: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("ocr: endpoint returned %d: %s", resp.StatusCode, firstBytes(body, 200))
	}

	var parsed visionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("ocr: decode response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return Result{}, fmt.Errorf("ocr: empty response")
	}
	first := parsed.Responses[0]
	if first.Error != nil {
		return Result{}, fmt.Errorf("ocr: endpoint error: %s", first.Error.Message)
	}
	if len(first.TextAnnotations) == 0 {
		return Result{}, nil
	}

	text := first.TextAnnotations[0].Description
	tokens := first.TextAnnotations[1:]
	if len(tokens) == 0 {
		return Result{Text: text, Confidence: tokenDefaultConfidence}, nil
	}
	sum := 0.0
	for _, tok := range tokens {
		conf := tok.Confidence
		if conf == 0 {
			conf = tokenDefaultConfidence
		}
		sum += conf
	}
	conf := sum / float64(len(tokens))
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return Result{Text: text, Confidence: conf}, nil
}

func firstBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
