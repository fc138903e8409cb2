package job

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// submitStagger spaces wallet submissions so a freshly started pool does
// not slam the API with simultaneous first requests.
const submitStagger = 250 * time.Millisecond

// fanOut streams every wallet through a fixed worker pool and blocks until
// all of them finish. Pool size is the client's per-second budget, capped
// at the wallet count. Each worker drives one wallet to completion; fetch
// handles its own errors, so a failing wallet never affects its siblings.
func (r *Runner) fanOut(ctx context.Context, wallets []common.Address, fetch func(context.Context, common.Address)) {
	if len(wallets) == 0 {
		return
	}

	workers := r.client.RateLimit()
	if workers > len(wallets) {
		workers = len(wallets)
	}

	queue := make(chan common.Address)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for wallet := range queue {
				fetch(ctx, wallet)
			}
		}()
	}

	for i, wallet := range wallets {
		if i > 0 {
			select {
			case <-time.After(r.stagger):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}
		queue <- wallet
	}
	close(queue)

	wg.Wait()
}
