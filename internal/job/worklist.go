package job

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/salustiana/o-sea/pkg/model"
)

// worklist merges address sets into one deduplicated slice. The all-zero
// burn address never makes the list: it is not a queryable wallet.
func worklist(sets ...map[common.Address]struct{}) []common.Address {
	merged := make(map[common.Address]struct{})
	for _, set := range sets {
		for addr := range set {
			merged[addr] = struct{}{}
		}
	}
	delete(merged, model.NullAddress)

	wallets := make([]common.Address, 0, len(merged))
	for addr := range merged {
		wallets = append(wallets, addr)
	}
	return wallets
}
