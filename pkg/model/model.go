// Package model defines the normalized marketplace records produced by the
// client and their CSV schemas. Fields that can be absent upstream (missing
// payment token, minting events without a buyer, assets without a
// collection) are pointers and stay nil; a partial record is valid output,
// not an error.
package model

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CollectionStats is the aggregate snapshot for one collection, fetched
// once per job from a single API call and written once.
type CollectionStats struct {
	Slug string `json:"-"`

	OneDayVolume          float64 `json:"one_day_volume"`
	OneDayChange          float64 `json:"one_day_change"`
	OneDaySales           float64 `json:"one_day_sales"`
	OneDayAveragePrice    float64 `json:"one_day_average_price"`
	SevenDayVolume        float64 `json:"seven_day_volume"`
	SevenDayChange        float64 `json:"seven_day_change"`
	SevenDaySales         float64 `json:"seven_day_sales"`
	SevenDayAveragePrice  float64 `json:"seven_day_average_price"`
	ThirtyDayVolume       float64 `json:"thirty_day_volume"`
	ThirtyDayChange       float64 `json:"thirty_day_change"`
	ThirtyDaySales        float64 `json:"thirty_day_sales"`
	ThirtyDayAveragePrice float64 `json:"thirty_day_average_price"`
	TotalVolume           float64 `json:"total_volume"`
	TotalSales            float64 `json:"total_sales"`
	TotalSupply           float64 `json:"total_supply"`
	Count                 float64 `json:"count"`
	NumOwners             float64 `json:"num_owners"`
	AveragePrice          float64 `json:"average_price"`
	NumReports            float64 `json:"num_reports"`
	MarketCap             float64 `json:"market_cap"`
	FloorPrice            float64 `json:"floor_price"`
}

// Asset is one NFT of a collection together with its current custodian, as
// returned by the collection-scoped assets endpoint. The display fields
// (AssetURL, ImageURL) are kept so listing records can be enriched later.
type Asset struct {
	ContractAddress string
	TokenID         string
	AssetURL        string
	ImageURL        string
	Collection      *string
	Owner           common.Address
}

// Transaction is a normalized successful-sale event. Buyer is nil for
// events without a chain-side from account; Price, Coin and PriceUSD are
// nil when the event carries no payment token; the asset block is nil when
// the event carries no asset.
type Transaction struct {
	AssetURL        *string
	ImageURL        *string
	ContractAddress *string
	TokenID         *string
	Collection      *string
	Seller          string
	Buyer           *string
	Price           *decimal.Decimal
	Coin            *string
	PriceUSD        *decimal.Decimal
	Timestamp       string
}

// NFT is one asset held by a queried wallet. The owner is implicit (the
// wallet the fetch was scoped to), so no ownership field is carried.
type NFT struct {
	AssetURL        string
	ImageURL        string
	ContractAddress string
	TokenID         string
	Collection      *string
}

// Listing is an active sale listing for one asset, enriched post-fetch with
// the asset's display fields (the listings endpoint returns neither).
type Listing struct {
	AssetURL        string
	ImageURL        string
	ContractAddress string
	TokenID         string
	Price           *decimal.Decimal
	Coin            *string
	Seller          string
	Created         string
	Expiration      string
}

// NullAddress is the all-zero burn sentinel. It marks "no real holder" and
// is never a queryable wallet.
var NullAddress = common.Address{}

// LowerHex renders an address the way the API and the CSV output use it.
func LowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
