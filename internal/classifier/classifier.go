// Package classifier talks to the external emotion classification service.
package classifier

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// request is the classification request body: one face crop as base64 JPEG.
type request struct {
	Image string `json:"image"`
}

// result carries the dominant emotion for one face.
type result struct {
	DominantEmotion string `json:"dominant_emotion"`
}

// HTTPClassifier classifies face crops over HTTP. Classification may fail
// per call; callers treat a failure as "no label for this region".
type HTTPClassifier struct {
	url    string
	client *http.Client
}

// New creates a classifier client for the given service URL.
func New(url string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Classify sends one face crop and returns its dominant emotion label.
func (c *HTTPClassifier) Classify(faceJPEG []byte) (string, error) {
	body, err := json.Marshal(request{
		Image: base64.StdEncoding.EncodeToString(faceJPEG),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.client.Post(c.url+"/classify", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slurp, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("classification %s: %s", resp.Status, string(slurp))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	label, err := dominantLabel(raw)
	if err != nil {
		return "", err
	}
	if label == "" {
		return "", fmt.Errorf("service returned no dominant emotion")
	}

	return label, nil
}

// dominantLabel extracts the dominant emotion from the response body. The
// service returns either a single result object or a list with one result
// per face; either shape yields one label here.
func dominantLabel(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)

	if bytes.HasPrefix(trimmed, []byte("[")) {
		var results []result
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return "", fmt.Errorf("failed to decode response list: %w", err)
		}
		if len(results) == 0 {
			return "", nil
		}
		return strings.ToLower(results[0].DominantEmotion), nil
	}

	var single result
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return strings.ToLower(single.DominantEmotion), nil
}
