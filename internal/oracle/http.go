package oracle

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

// HTTP queries a remote padding oracle speaking the demo server protocol:
// POST hex candidate to /oracle, 200 means valid padding, 403 means invalid.
type HTTP struct {
	base    string
	client  *http.Client
	queries atomic.Int64
}

func NewHTTP(base string) *HTTP {
	return &HTTP{base: strings.TrimRight(base, "/"), client: http.DefaultClient}
}

func (h *HTTP) Query(ctx context.Context, candidate []byte) (bool, error) {
	h.queries.Add(1)
	body := strings.NewReader(hex.EncodeToString(candidate))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/oracle", body)
	if err != nil { return false, err }
	resp, err := h.client.Do(req)
	if err != nil { return false, err }
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}
}

func (h *HTTP) Queries() int64 { return h.queries.Load() }

// FetchCiphertext pulls the server's hex-encoded sample ciphertext.
func (h *HTTP) FetchCiphertext(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/ciphertext", nil)
	if err != nil { return nil, err }
	resp, err := h.client.Do(req)
	if err != nil { return nil, err }
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ciphertext fetch returned status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil { return nil, err }
	return hex.DecodeString(strings.TrimSpace(string(raw)))
}
