package nft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Mohsinsiddi/w3dash/internal/config"
)

// maxMetadataBytes bounds a single metadata document.
const maxMetadataBytes = 1 << 20

// Metadata is the subset of the ERC-721 metadata JSON schema we display.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Fetcher resolves token URIs and downloads their metadata documents.
type Fetcher struct {
	gateway string
	client  *http.Client
}

// NewFetcher returns a Fetcher that rewrites ipfs:// through gateway. An
// empty gateway uses the public ipfs.io gateway; a nil client uses one with
// config.MetadataTimeout.
func NewFetcher(gateway string, client *http.Client) *Fetcher {
	if gateway == "" {
		gateway = config.DefaultIPFSGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: config.MetadataTimeout}
	}
	return &Fetcher{gateway: gateway, client: client}
}

// Resolve rewrites content-addressed URIs to the HTTP gateway. Other URIs
// are returned unchanged.
func (f *Fetcher) Resolve(uri string) string {
	uri = strings.TrimSpace(uri)
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		rest = strings.TrimPrefix(rest, "ipfs/")
		return f.gateway + rest
	}
	return uri
}

// Fetch loads the metadata at uri. data: URIs are decoded in place.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*Metadata, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(uri, "data:") {
		body, err = decodeDataURI(uri)
	} else {
		body, err = f.get(ctx, f.Resolve(uri))
	}
	if err != nil {
		return nil, err
	}

	var md Metadata
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	md.Image = f.Resolve(md.Image)
	return &md, nil
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching metadata: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(header, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI: %w", err)
	}
	return []byte(s), nil
}
