// Package ipfs uploads documents through an IPFS HTTP API and builds gateway
// links for /ipfs/ paths.
package ipfs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"go.uber.org/zap"
)

// ErrUpload is returned when the IPFS node does not accept a document.
var ErrUpload = errors.New("ipfs upload failed")

// Client uploads to an IPFS node's /api/v0/add endpoint.
type Client struct {
	api  string
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l.Named("ipfs") }
}

// NewClient creates a client for the API at apiURL (e.g. http://127.0.0.1:5001).
func NewClient(apiURL string, opts ...Option) *Client {
	c := &Client{
		api:  strings.TrimRight(apiURL, "/"),
		http: &http.Client{Timeout: config.HTTPTimeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// addEntry is one line of the /api/v0/add response stream.
type addEntry struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
}

// UploadJSON marshals v and uploads it as name.
func (c *Client) UploadJSON(ctx context.Context, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	return c.Upload(ctx, name, data)
}

// Upload pins data as name inside a wrapping directory and returns its path,
// /ipfs/<dir-cid>/<name>.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := c.api + "/api/v0/add?pin=true&wrap-with-directory=true&cid-version=0"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrUpload, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var file, dir string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e addEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return "", fmt.Errorf("%w: invalid response: %v", ErrUpload, err)
		}
		switch e.Name {
		case "":
			dir = e.Hash
		case name:
			file = e.Hash
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpload, err)
	}

	var path string
	switch {
	case dir != "":
		path = "/ipfs/" + dir + "/" + name
	case file != "":
		path = "/ipfs/" + file
	default:
		return "", fmt.Errorf("%w: no hash in response", ErrUpload)
	}
	c.log.Info("uploaded", zap.String("name", name), zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// GatewayURL turns an /ipfs/ path, ipfs:// URI or bare CID into a gateway
// link. Empty input yields "".
func GatewayURL(gateway, uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}
	uri = strings.TrimPrefix(uri, "ipfs://")
	uri = strings.TrimPrefix(uri, "/ipfs/")
	return strings.TrimRight(gateway, "/") + "/ipfs/" + uri
}
