package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/salustiana/o-sea/pkg/model"
)

// rawAsset mirrors one asset object from the /assets endpoint.
type rawAsset struct {
	TokenID       string `json:"token_id"`
	Permalink     string `json:"permalink"`
	ImageURL      string `json:"image_url"`
	AssetContract *struct {
		Address string `json:"address"`
	} `json:"asset_contract"`
	Owner *struct {
		Address string `json:"address"`
	} `json:"owner"`
	Collection *struct {
		Slug string `json:"slug"`
	} `json:"collection"`
}

type assetsPayload struct {
	Next   *string    `json:"next"`
	Assets []rawAsset `json:"assets"`
}

// CollectionAssets streams the collection's asset-ownership pages, 50
// assets per call, bounded by ceiling total calls (0 = unbounded).
func (c *Client) CollectionAssets(ctx context.Context, slug string, ceiling int) *Pages[model.Asset] {
	return newPages(ceiling, func(ctx context.Context, cursor *string) ([]model.Asset, *string, error) {
		payload, err := c.assetsPage(ctx, url.Values{"collection": {slug}}, cursor)
		if err != nil {
			return nil, nil, err
		}

		batch := make([]model.Asset, 0, len(payload.Assets))
		for _, raw := range payload.Assets {
			batch = append(batch, parseAsset(raw))
		}
		return batch, payload.Next, nil
	})
}

// WalletAssets streams the NFTs held by one wallet. The all-zero address is
// the burn sentinel, not a queryable holder: it yields an exhausted
// sequence without touching the network.
func (c *Client) WalletAssets(ctx context.Context, wallet common.Address, ceiling int) *Pages[model.NFT] {
	if wallet == model.NullAddress {
		return exhaustedPages[model.NFT]()
	}

	return newPages(ceiling, func(ctx context.Context, cursor *string) ([]model.NFT, *string, error) {
		payload, err := c.assetsPage(ctx, url.Values{"owner": {model.LowerHex(wallet)}}, cursor)
		if err != nil {
			return nil, nil, err
		}

		batch := make([]model.NFT, 0, len(payload.Assets))
		for _, raw := range payload.Assets {
			batch = append(batch, parseNFT(raw))
		}
		return batch, payload.Next, nil
	})
}

func (c *Client) assetsPage(ctx context.Context, query url.Values, cursor *string) (*assetsPayload, error) {
	query.Set("limit", strconv.Itoa(assetsPageSize))
	if cursor != nil {
		query.Set("cursor", *cursor)
	}

	body, err := c.get(ctx, "/assets", query)
	if err != nil {
		return nil, err
	}

	var payload assetsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode assets page: %w", err)
	}
	return &payload, nil
}

func parseAsset(raw rawAsset) model.Asset {
	asset := model.Asset{
		TokenID:  raw.TokenID,
		AssetURL: raw.Permalink,
		ImageURL: raw.ImageURL,
	}
	if raw.AssetContract != nil {
		asset.ContractAddress = strings.ToLower(raw.AssetContract.Address)
	}
	if raw.Owner != nil {
		asset.Owner = common.HexToAddress(raw.Owner.Address)
	}
	if raw.Collection != nil {
		slug := raw.Collection.Slug
		asset.Collection = &slug
	}
	return asset
}

func parseNFT(raw rawAsset) model.NFT {
	nft := model.NFT{
		TokenID:  raw.TokenID,
		AssetURL: raw.Permalink,
		ImageURL: raw.ImageURL,
	}
	if raw.AssetContract != nil {
		nft.ContractAddress = strings.ToLower(raw.AssetContract.Address)
	}
	if raw.Collection != nil {
		slug := raw.Collection.Slug
		nft.Collection = &slug
	}
	return nft
}
