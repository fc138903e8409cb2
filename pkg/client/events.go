package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/salustiana/o-sea/pkg/model"
)

// rawEvent mirrors one event object from the /events endpoint.
type rawEvent struct {
	TotalPrice   *string `json:"total_price"`
	PaymentToken *struct {
		Symbol   string  `json:"symbol"`
		Decimals int32   `json:"decimals"`
		USDPrice *string `json:"usd_price"`
	} `json:"payment_token"`
	Seller *struct {
		Address string `json:"address"`
	} `json:"seller"`
	Transaction *struct {
		Timestamp   string `json:"timestamp"`
		FromAccount *struct {
			Address string `json:"address"`
		} `json:"from_account"`
	} `json:"transaction"`
	Asset *rawAsset `json:"asset"`
}

type eventsPayload struct {
	Next        *string    `json:"next"`
	AssetEvents []rawEvent `json:"asset_events"`
}

// CollectionSales streams the collection's successful-sale pages, 300
// events per call, bounded by ceiling total calls (0 = unbounded).
func (c *Client) CollectionSales(ctx context.Context, slug string, ceiling int) *Pages[model.Transaction] {
	return c.eventPages(url.Values{"collection_slug": {slug}}, ceiling)
}

// WalletTransactions streams the successful-sale events one wallet took
// part in. The all-zero address yields an exhausted sequence without any
// network call.
func (c *Client) WalletTransactions(ctx context.Context, wallet common.Address, ceiling int) *Pages[model.Transaction] {
	if wallet == model.NullAddress {
		return exhaustedPages[model.Transaction]()
	}
	return c.eventPages(url.Values{"account_address": {model.LowerHex(wallet)}}, ceiling)
}

func (c *Client) eventPages(query url.Values, ceiling int) *Pages[model.Transaction] {
	return newPages(ceiling, func(ctx context.Context, cursor *string) ([]model.Transaction, *string, error) {
		page := url.Values{"event_type": {"successful"}, "limit": {strconv.Itoa(eventsPageSize)}}
		for key, vals := range query {
			page[key] = vals
		}
		if cursor != nil {
			page.Set("cursor", *cursor)
		}

		body, err := c.get(ctx, "/events", page)
		if err != nil {
			return nil, nil, err
		}

		var payload eventsPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, nil, fmt.Errorf("decode events page: %w", err)
		}

		batch := make([]model.Transaction, 0, len(payload.AssetEvents))
		for _, raw := range payload.AssetEvents {
			batch = append(batch, parseTransaction(raw))
		}
		return batch, payload.Next, nil
	})
}

// parseTransaction normalizes one successful-sale event. It is pure:
// the same raw event always yields the same record. Monetary fields stay
// nil when the event carries no payment token, the buyer stays nil when
// the chain-side from account is absent, and the asset block stays nil
// when the event carries no asset.
func parseTransaction(raw rawEvent) model.Transaction {
	var tx model.Transaction

	if raw.Seller != nil {
		tx.Seller = strings.ToLower(raw.Seller.Address)
	}
	if raw.Transaction != nil {
		tx.Timestamp = raw.Transaction.Timestamp
		if raw.Transaction.FromAccount != nil {
			buyer := strings.ToLower(raw.Transaction.FromAccount.Address)
			tx.Buyer = &buyer
		}
	}

	if raw.PaymentToken != nil {
		coin := raw.PaymentToken.Symbol
		tx.Coin = &coin

		if raw.TotalPrice != nil {
			if total, err := decimal.NewFromString(*raw.TotalPrice); err == nil {
				price := total.Shift(-raw.PaymentToken.Decimals)
				tx.Price = &price

				if raw.PaymentToken.USDPrice != nil {
					if usd, err := decimal.NewFromString(*raw.PaymentToken.USDPrice); err == nil {
						priceUSD := price.Mul(usd)
						tx.PriceUSD = &priceUSD
					}
				}
			}
		}
	}

	if raw.Asset != nil {
		assetURL := raw.Asset.Permalink
		imageURL := raw.Asset.ImageURL
		tokenID := raw.Asset.TokenID
		tx.AssetURL = &assetURL
		tx.ImageURL = &imageURL
		tx.TokenID = &tokenID

		if raw.Asset.AssetContract != nil {
			contract := strings.ToLower(raw.Asset.AssetContract.Address)
			tx.ContractAddress = &contract
		}
		if raw.Asset.Collection != nil {
			slug := raw.Asset.Collection.Slug
			tx.Collection = &slug
		}
	}

	return tx
}

// SellerAddress converts a transaction's seller field into an address for
// worklist accumulation. An absent seller maps to the null address, which
// worklists exclude.
func SellerAddress(tx model.Transaction) common.Address {
	if tx.Seller == "" {
		return model.NullAddress
	}
	return common.HexToAddress(tx.Seller)
}
