package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Record kinds. Each kind maps to one CSV file within a collection's
// output directory.
const (
	KindInfo               = "info"
	KindNFTData            = "nft_data"
	KindListings           = "listings"
	KindCollectionSales    = "collection_sales"
	KindOwnerTransactions  = "owner_transactions"
	KindOwnerAndSellerNFTs = "owner_and_seller_nfts"
)

// StatsHeader is the schema of the info file.
func StatsHeader() []string {
	return []string{
		"slug",
		"one_day_volume", "one_day_change", "one_day_sales", "one_day_average_price",
		"seven_day_volume", "seven_day_change", "seven_day_sales", "seven_day_average_price",
		"thirty_day_volume", "thirty_day_change", "thirty_day_sales", "thirty_day_average_price",
		"total_volume", "total_sales", "total_supply", "count",
		"num_owners", "average_price", "num_reports", "market_cap", "floor_price",
	}
}

// Row renders the stats record in StatsHeader order.
func (s *CollectionStats) Row() []string {
	return []string{
		s.Slug,
		f(s.OneDayVolume), f(s.OneDayChange), f(s.OneDaySales), f(s.OneDayAveragePrice),
		f(s.SevenDayVolume), f(s.SevenDayChange), f(s.SevenDaySales), f(s.SevenDayAveragePrice),
		f(s.ThirtyDayVolume), f(s.ThirtyDayChange), f(s.ThirtyDaySales), f(s.ThirtyDayAveragePrice),
		f(s.TotalVolume), f(s.TotalSales), f(s.TotalSupply), f(s.Count),
		f(s.NumOwners), f(s.AveragePrice), f(s.NumReports), f(s.MarketCap), f(s.FloorPrice),
	}
}

// OwnershipHeader is the schema of the nft_data file.
func OwnershipHeader() []string {
	return []string{"contract_address", "token_id", "owner"}
}

// OwnershipRow renders the (contract, token, owner) custody triple.
func (a Asset) OwnershipRow() []string {
	return []string{a.ContractAddress, a.TokenID, LowerHex(a.Owner)}
}

// TransactionHeader is the schema of the collection_sales and
// owner_transactions files.
func TransactionHeader() []string {
	return []string{
		"asset_url", "image_url", "contract_address", "token_id", "collection",
		"seller", "buyer", "price", "coin", "price_usd", "timestamp",
	}
}

// Row renders the transaction in TransactionHeader order. Nil fields render
// as empty cells.
func (t Transaction) Row() []string {
	return []string{
		str(t.AssetURL), str(t.ImageURL), str(t.ContractAddress), str(t.TokenID), str(t.Collection),
		t.Seller, str(t.Buyer), dec(t.Price), str(t.Coin), dec(t.PriceUSD), t.Timestamp,
	}
}

// NFTHeader is the schema of the owner_and_seller_nfts file.
func NFTHeader() []string {
	return []string{"asset_url", "image_url", "contract_address", "token_id", "collection"}
}

// Row renders the NFT in NFTHeader order.
func (n NFT) Row() []string {
	return []string{n.AssetURL, n.ImageURL, n.ContractAddress, n.TokenID, str(n.Collection)}
}

// ListingHeader is the schema of the listings file.
func ListingHeader() []string {
	return []string{
		"asset_url", "image_url", "contract_address", "token_id",
		"price", "coin", "seller", "created", "expiration",
	}
}

// Row renders the listing in ListingHeader order.
func (l Listing) Row() []string {
	return []string{
		l.AssetURL, l.ImageURL, l.ContractAddress, l.TokenID,
		dec(l.Price), str(l.Coin), l.Seller, l.Created, l.Expiration,
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dec(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
