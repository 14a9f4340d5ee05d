package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"wasp/internal/domain"
	"wasp/internal/domain/types"
)

// decodeStrict decodes r into out, rejecting unknown fields so a malformed
// or downgraded relay response is reported as a parse error rather than
// silently accepted with fields dropped (spec.md §9).
func decodeStrict(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParseError, err)
	}
	return nil
}

// HTTPClient is a domain.RelayClient backed by plain HTTP requests against
// a relay's base URL.
type HTTPClient struct {
	base string
	http *http.Client
}

// NewHTTP returns an HTTPClient rooted at base (e.g. "http://127.0.0.1:8080").
// A nil http.Client defaults to http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{base: base, http: client}
}

// RegisterPreKeyBundle publishes bundle to the relay under its UserID.
func (c *HTTPClient) RegisterPreKeyBundle(ctx context.Context, bundle types.PreKeyBundle) error {
	return c.do(ctx, http.MethodPut, "/v1/bundles/"+pathEscape(bundle.UserID), bundle, nil)
}

// FetchPreKeyBundle fetches the published bundle for userID, consuming one
// one-time pre-key server-side if any remain.
func (c *HTTPClient) FetchPreKeyBundle(ctx context.Context, userID types.ContactID) (types.PreKeyBundle, error) {
	var out types.PreKeyBundle
	err := c.do(ctx, http.MethodGet, "/v1/bundles/"+pathEscape(userID), nil, &out)
	return out, err
}

// ReplenishOneTimePreKeys uploads a fresh batch of one-time pre-key publics
// for userID.
func (c *HTTPClient) ReplenishOneTimePreKeys(ctx context.Context, userID types.ContactID, keys []types.OneTimePreKeyPublic) error {
	return c.do(ctx, http.MethodPost, "/v1/bundles/"+pathEscape(userID)+"/opks", keys, nil)
}

// RotateSignedPreKey replaces the signed pre-key the relay serves for
// userID. From then on the relay serves only the new one; cmd/relay keeps no
// copy of the prior one.
func (c *HTTPClient) RotateSignedPreKey(ctx context.Context, userID types.ContactID, spk types.SignedPreKeyPublic) error {
	return c.do(ctx, http.MethodPost, "/v1/bundles/"+pathEscape(userID)+"/spk", spk, nil)
}

// SendEnvelope posts envelope to userID's queue.
func (c *HTTPClient) SendEnvelope(ctx context.Context, userID types.ContactID, envelope types.Envelope) error {
	return c.do(ctx, http.MethodPost, "/v1/envelopes/"+pathEscape(userID), envelope, nil)
}

// FetchEnvelopes returns up to limit queued envelopes for userID, oldest
// first. limit<=0 means no limit.
func (c *HTTPClient) FetchEnvelopes(ctx context.Context, userID types.ContactID, limit int) ([]types.Envelope, error) {
	path := "/v1/envelopes/" + pathEscape(userID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	envs := []types.Envelope{}
	err := c.do(ctx, http.MethodGet, path, nil, &envs)
	return envs, err
}

// AckEnvelopes tells the relay the first count queued envelopes for userID
// have been processed and may be discarded. The relay is not required to
// guarantee exactly-once delivery (spec.md §6.4); it only must not redeliver
// acked envelopes under normal operation.
func (c *HTTPClient) AckEnvelopes(ctx context.Context, userID types.ContactID, count int) error {
	body := struct {
		Count int `json:"count"`
	}{Count: count}
	return c.do(ctx, http.MethodPost, "/v1/envelopes/"+pathEscape(userID)+"/ack", body, nil)
}

// FetchAccountCanary returns the short human-readable string the relay
// serves for userID (cmd/relay uses a prefix of the hex-encoded identity
// signing key), so a client can show the user something to eyeball
// alongside a safety-number warning.
func (c *HTTPClient) FetchAccountCanary(ctx context.Context, userID types.ContactID) (string, error) {
	var out struct {
		Canary string `json:"canary"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/canary/"+pathEscape(userID), nil, &out)
	return out.Canary, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	} else {
		body = new(bytes.Buffer)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", method, path, resp.Status)
	}
	if out != nil {
		return decodeStrict(resp.Body, out)
	}
	return nil
}

func pathEscape(c types.ContactID) string { return url.PathEscape(c.String()) }

// Compile-time assertion that HTTPClient implements domain.RelayClient.
var _ domain.RelayClient = (*HTTPClient)(nil)
