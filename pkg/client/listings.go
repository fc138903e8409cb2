package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/salustiana/o-sea/pkg/model"
)

// rawListing mirrors one listing from the per-asset listings endpoint.
type rawListing struct {
	CurrentPrice         *string `json:"current_price"`
	PaymentTokenContract *struct {
		Symbol   string `json:"symbol"`
		Decimals int32  `json:"decimals"`
	} `json:"payment_token_contract"`
	Maker *struct {
		Address string `json:"address"`
	} `json:"maker"`
	CreatedDate string  `json:"created_date"`
	ClosingDate *string `json:"closing_date"`
}

type listingsPayload struct {
	Listings []rawListing `json:"listings"`
}

/// AssetListings fetches the active listings for one asset: one API call
// per asset. The endpoint returns no display fields, so records are
// enriched here with the asset's permalink and image.
func (c *Client) AssetListings(ctx context.Context, asset model.Asset) ([]model.Listing, error) {
	path := fmt.Sprintf("/asset/%s/%s/listings", asset.ContractAddress, asset.TokenID)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var payload listingsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode listings for %s/%s: %w", asset.ContractAddress, asset.TokenID, err)
	}

	listings := make([]model.Listing, 0, len(payload.Listings))
	for _, raw := range payload.Listings {
		listing := model.Listing{
			AssetURL:        asset.AssetURL,
			ImageURL:        asset.ImageURL,
			ContractAddress: asset.ContractAddress,
			TokenID:         asset.TokenID,
			Created:         raw.CreatedDate,
		}
		if raw.ClosingDate != nil {
			listing.Expiration = *raw.ClosingDate
		}
		if raw.Maker != nil {
			listing.Seller = strings.ToLower(raw.Maker.Address)
		}
		if raw.PaymentTokenContract != nil {
			coin := raw.PaymentTokenContract.Symbol
			listing.Coin = &coin

			if raw.CurrentPrice != nil {
				if total, err := decimal.NewFromString(*raw.CurrentPrice); err == nil {
					price := total.Shift(-raw.PaymentTokenContract.Decimals)
					listing.Price = &price
				}
			}
		}
		listings = append(listings, listing)
	}

	return listings, nil
}
