// Package job orchestrates collection scrapes: aggregate stats, asset
// custody, sale history, active listings, then a concurrent fan-out over
// the wallets the collection surfaced. Stages fail soft: an error is
// logged against its slug or wallet and the run moves on.
package job

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/salustiana/o-sea/pkg/client"
	"github.com/salustiana/o-sea/pkg/logging"
	"github.com/salustiana/o-sea/pkg/model"
)

// Sink receives the records a run produces. Batches append atomically.
type Sink interface {
	Append(slug, kind string, header []string, rows [][]string) error
}

// Params bounds one collection's scrape. Page ceilings count API calls
// (0 = unbounded); ListingAssets is the number of assets to fetch listings
// for (0 skips the stage).
type Params struct {
	Slug           string
	AssetPages     int
	SalesPages     int
	WalletNFTPages int
	WalletTxPages  int
	ListingAssets  int
}

// Runner drives scrapes against one client and one sink.
type Runner struct {
	client  *client.Client
	sink    Sink
	logger  zerolog.Logger
	stagger time.Duration
	summary *Summary
}

func NewRunner(c *client.Client, s Sink) *Runner {
	return &Runner{
		client:  c,
		sink:    s,
		logger:  logging.NewLogger("job"),
		stagger: submitStagger,
		summary: NewSummary(),
	}
}

// Summary returns the run's accumulated record counts.
func (r *Runner) Summary() *Summary {
	return r.summary
}

// Run scrapes every collection in sequence. Collections fail independently:
// an error in one is logged and the next still runs.
func (r *Runner) Run(ctx context.Context, jobs []Params) error {
	for _, params := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.runCollection(ctx, params)
	}
	return nil
}

func (r *Runner) runCollection(ctx context.Context, params Params) {
	logger := r.logger.With().Str("slug", params.Slug).Logger()
	logger.Info().Msg("starting collection scrape")

	r.fetchStats(ctx, params, logger)

	owners, assets := r.fetchCollectionAssets(ctx, params, logger)
	sellers := r.fetchCollectionSales(ctx, params, logger)

	if params.ListingAssets > 0 {
		r.fetchListings(ctx, params, assets, logger)
	}

	holders := worklist(owners, sellers)
	logger.Info().Int("wallets", len(holders)).Msg("fanning out wallet holdings")
	r.fanOut(ctx, holders, func(ctx context.Context, wallet common.Address) {
		r.fetchWalletAssets(ctx, params, wallet, logger)
	})

	txWallets := worklist(owners)
	logger.Info().Int("wallets", len(txWallets)).Msg("fanning out wallet transactions")
	r.fanOut(ctx, txWallets, func(ctx context.Context, wallet common.Address) {
		r.fetchWalletTransactions(ctx, params, wallet, logger)
	})

	logger.Info().Msg("collection scrape finished")
}

func (r *Runner) fetchStats(ctx context.Context, params Params, logger zerolog.Logger) {
	stats, err := r.client.CollectionStats(ctx, params.Slug)
	if err != nil {
		logger.Error().Err(err).Msg("fetching collection stats failed")
		return
	}
	r.persist(params.Slug, model.KindInfo, model.StatsHeader(), [][]string{stats.Row()}, logger)
}

// fetchCollectionAssets persists custody rows and returns the owner set
// plus the assets themselves for the listings stage.
func (r *Runner) fetchCollectionAssets(ctx context.Context, params Params, logger zerolog.Logger) (map[common.Address]struct{}, []model.Asset) {
	owners := make(map[common.Address]struct{})
	var assets []model.Asset

	pages := r.client.CollectionAssets(ctx, params.Slug, params.AssetPages)
	for pages.Next(ctx) {
		batch := pages.Batch()
		rows := make([][]string, 0, len(batch))
		for _, asset := range batch {
			owners[asset.Owner] = struct{}{}
			assets = append(assets, asset)
			rows = append(rows, asset.OwnershipRow())
		}
		r.persist(params.Slug, model.KindNFTData, model.OwnershipHeader(), rows, logger)
	}
	if err := pages.Err(); err != nil {
		logger.Error().Err(err).Int("calls", pages.Calls()).Msg("collection assets fetch stopped early")
	}

	return owners, assets
}

// fetchCollectionSales persists sale rows and returns the seller set.
func (r *Runner) fetchCollectionSales(ctx context.Context, params Params, logger zerolog.Logger) map[common.Address]struct{} {
	sellers := make(map[common.Address]struct{})

	pages := r.client.CollectionSales(ctx, params.Slug, params.SalesPages)
	for pages.Next(ctx) {
		batch := pages.Batch()
		rows := make([][]string, 0, len(batch))
		for _, tx := range batch {
			sellers[client.SellerAddress(tx)] = struct{}{}
			rows = append(rows, tx.Row())
		}
		r.persist(params.Slug, model.KindCollectionSales, model.TransactionHeader(), rows, logger)
	}
	if err := pages.Err(); err != nil {
		logger.Error().Err(err).Int("calls", pages.Calls()).Msg("collection sales fetch stopped early")
	}

	return sellers
}

// fetchListings visits the first ListingAssets assets, one call each.
func (r *Runner) fetchListings(ctx context.Context, params Params, assets []model.Asset, logger zerolog.Logger) {
	limit := params.ListingAssets
	if limit > len(assets) {
		limit = len(assets)
	}

	for _, asset := range assets[:limit] {
		if ctx.Err() != nil {
			return
		}
		listings, err := r.client.AssetListings(ctx, asset)
		if err != nil {
			logger.Error().Err(err).
				Str("contract", asset.ContractAddress).
				Str("token_id", asset.TokenID).
				Msg("fetching asset listings failed")
			continue
		}

		rows := make([][]string, 0, len(listings))
		for _, listing := range listings {
			rows = append(rows, listing.Row())
		}
		r.persist(params.Slug, model.KindListings, model.ListingHeader(), rows, logger)
	}
}

func (r *Runner) fetchWalletAssets(ctx context.Context, params Params, wallet common.Address, logger zerolog.Logger) {
	pages := r.client.WalletAssets(ctx, wallet, params.WalletNFTPages)
	for pages.Next(ctx) {
		batch := pages.Batch()
		rows := make([][]string, 0, len(batch))
		for _, nft := range batch {
			rows = append(rows, nft.Row())
		}
		r.persist(params.Slug, model.KindOwnerAndSellerNFTs, model.NFTHeader(), rows, logger)
	}
	if err := pages.Err(); err != nil {
		logger.Error().Err(err).
			Str("wallet", model.LowerHex(wallet)).
			Msg("wallet holdings fetch stopped early")
	}
}

func (r *Runner) fetchWalletTransactions(ctx context.Context, params Params, wallet common.Address, logger zerolog.Logger) {
	pages := r.client.WalletTransactions(ctx, wallet, params.WalletTxPages)
	for pages.Next(ctx) {
		batch := pages.Batch()
		rows := make([][]string, 0, len(batch))
		for _, tx := range batch {
			rows = append(rows, tx.Row())
		}
		r.persist(params.Slug, model.KindOwnerTransactions, model.TransactionHeader(), rows, logger)
	}
	if err := pages.Err(); err != nil {
		logger.Error().Err(err).
			Str("wallet", model.LowerHex(wallet)).
			Msg("wallet transactions fetch stopped early")
	}
}

// persist appends one batch to the sink and feeds the summary. Sink errors
// are logged, not propagated: losing one batch should not end the run.
func (r *Runner) persist(slug, kind string, header []string, rows [][]string, logger zerolog.Logger) {
	if len(rows) == 0 {
		return
	}
	if err := r.sink.Append(slug, kind, header, rows); err != nil {
		logger.Error().Err(err).Str("kind", kind).Msg("persisting records failed")
		return
	}
	r.summary.Add(slug, kind, len(rows))
}
