package job

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/salustiana/o-sea/pkg/model"
)

func TestWorklist_MergesAndExcludesNullAddress(t *testing.T) {
	addrA := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	addrB := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	addrC := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	owners := map[common.Address]struct{}{addrA: {}, addrB: {}}
	sellers := map[common.Address]struct{}{addrB: {}, addrC: {}, model.NullAddress: {}}

	wallets := worklist(owners, sellers)

	if len(wallets) != 3 {
		t.Fatalf("worklist has %d wallets, want 3", len(wallets))
	}
	seen := make(map[common.Address]bool)
	for _, addr := range wallets {
		if seen[addr] {
			t.Errorf("duplicate wallet %s", model.LowerHex(addr))
		}
		seen[addr] = true
	}
	if !seen[addrA] || !seen[addrB] || !seen[addrC] {
		t.Errorf("worklist = %v, want the union of both sets", wallets)
	}
	if seen[model.NullAddress] {
		t.Error("worklist contains the null address")
	}
}

func TestWorklist_Empty(t *testing.T) {
	if wallets := worklist(); len(wallets) != 0 {
		t.Errorf("worklist of no sets = %v, want empty", wallets)
	}

	only := map[common.Address]struct{}{model.NullAddress: {}}
	if wallets := worklist(only); len(wallets) != 0 {
		t.Errorf("worklist of just the null address = %v, want empty", wallets)
	}
}
