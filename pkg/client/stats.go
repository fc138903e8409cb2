package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/salustiana/o-sea/pkg/model"
)

// statsPayload mirrors the /collection/{slug}/stats response.
type statsPayload struct {
	Stats model.CollectionStats `json:"stats"`
}

// CollectionStats fetches the aggregate stats snapshot for one collection.
func (c *Client) CollectionStats(ctx context.Context, slug string) (*model.CollectionStats, error) {
	body, err := c.get(ctx, "/collection/"+slug+"/stats", nil)
	if err != nil {
		return nil, err
	}

	var payload statsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w", slug, err)
	}

	stats := payload.Stats
	stats.Slug = slug
	return &stats, nil
}
