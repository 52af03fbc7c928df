// internal/contentapi/client.go
package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"manara-backend/internal/common/config"
	apperrors "manara-backend/internal/common/errors"
	commonhttp "manara-backend/internal/common/http"
)

// Client is a typed GET client for the REST content API.
type Client struct {
	baseURL string
	token   string
	http    *commonhttp.Client
	timeout int
}

func NewClient(cfg config.ContentAPIConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		timeout: cfg.Timeout,
	}
}

// ListCollection fetches one collection with the given query parameters.
func (c *Client) ListCollection(ctx context.Context, collection string, q Query) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.timeout))
	defer cancel()

	resp, err := c.http.Get(ctx, c.buildURL(collection, q), c.token)
	if err != nil {
		return nil, apperrors.NewSearchUpstreamFailedError(collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewSearchUpstreamFailedError(collection,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, apperrors.NewSearchUpstreamFailedError(collection, err)
	}
	return envelope.Data, nil
}

func (c *Client) buildURL(collection string, q Query) string {
	params := url.Values{}
	if q.Populate != "" {
		params.Set("populate", q.Populate)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		params.Set("pagination[page]", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pagination[pageSize]", strconv.Itoa(q.PageSize))
	}

	u := c.baseURL + "/" + collection
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
