package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	readModelPath  = "/formrecognizer/documentModels/prebuilt-read:analyze"
	readAPIVersion = "2023-07-31"
	pollInterval   = 2 * time.Second
)

// AzureReader performs OCR through the Azure Document Intelligence
// prebuilt-read model.
type AzureReader struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewAzureReader builds a reader against the given resource endpoint.
func NewAzureReader(endpoint, key string) *AzureReader {
	return &AzureReader{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type analyzeResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
	} `json:"analyzeResult"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Read submits the document for analysis and polls until the operation
// completes, returning the recognized text.
func (a *AzureReader) Read(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	opURL, err := a.submit(ctx, content)
	if err != nil {
		return "", err
	}
	return a.poll(ctx, opURL)
}

func (a *AzureReader) submit(ctx context.Context, content []byte) (string, error) {
	url := fmt.Sprintf("%s%s?api-version=%s", a.endpoint, readModelPath, readAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting document for analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("analyze request failed with status %d: %s", resp.StatusCode, string(body))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("analyze response missing Operation-Location header")
	}
	return opURL, nil
}

func (a *AzureReader) poll(ctx context.Context, opURL string) (string, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return "", fmt.Errorf("building poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

		resp, err := a.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("polling analyze operation: %w", err)
		}
		var result analyzeResult
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("decoding analyze result: %w", err)
		}

		switch result.Status {
		case "succeeded":
			return result.AnalyzeResult.Content, nil
		case "failed":
			return "", fmt.Errorf("analyze operation failed: %s: %s", result.Error.Code, result.Error.Message)
		}
	}
}
