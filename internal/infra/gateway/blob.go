package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resonancehq/archetype-api/internal/usecase"
)

// maxAssetBytes bounds how much of a source asset is copied.
const maxAssetBytes = 8 << 20

// BlobGateway is a stateless wrapper over the blob storage service: it
// fetches the source asset and uploads a copy. The single write happens
// only on the success path.
type BlobGateway struct {
	client   *http.Client
	endpoint string
}

func NewBlobGateway(endpoint string, timeout time.Duration) *BlobGateway {
	return &BlobGateway{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

func (g *BlobGateway) PersistCopy(ctx context.Context, sourceURL string) (string, error) {
	if g.endpoint == "" {
		return "", fmt.Errorf("blob storage not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch source asset: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("source asset returned status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxAssetBytes)
	upload, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		upload.Header.Set("Content-Type", ct)
	}

	uploadResp, err := g.client.Do(upload)
	if err != nil {
		return "", fmt.Errorf("failed to upload copy: %v", err)
	}
	defer uploadResp.Body.Close()

	if uploadResp.StatusCode < 200 || uploadResp.StatusCode >= 300 {
		return "", fmt.Errorf("upload returned status %d", uploadResp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(uploadResp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %v", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return out.URL, nil
}

var _ usecase.BlobStorage = (*BlobGateway)(nil)
