package job

import (
	"io"
	"sort"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/salustiana/o-sea/pkg/model"
)

var summaryKinds = []string{
	model.KindInfo,
	model.KindNFTData,
	model.KindCollectionSales,
	model.KindListings,
	model.KindOwnerTransactions,
	model.KindOwnerAndSellerNFTs,
}

// Summary accumulates per-collection record counts across concurrent
// workers for the end-of-run report.
type Summary struct {
	mu     sync.Mutex
	counts map[string]map[string]int
}

func NewSummary() *Summary {
	return &Summary{counts: make(map[string]map[string]int)}
}

// Add records n written records of one kind for a collection.
func (s *Summary) Add(slug, kind string, n int) {
	if n == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counts[slug] == nil {
		s.counts[slug] = make(map[string]int)
	}
	s.counts[slug][kind] += n
}

// Count returns the accumulated record count for one collection and kind.
func (s *Summary) Count(slug, kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[slug][kind]
}

// Render writes the per-collection record counts as a table.
func (s *Summary) Render(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slugs := make([]string, 0, len(s.counts))
	for slug := range s.counts {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"collection"}
	for _, kind := range summaryKinds {
		header = append(header, kind)
	}
	t.AppendHeader(header)

	for _, slug := range slugs {
		row := table.Row{slug}
		for _, kind := range summaryKinds {
			row = append(row, s.counts[slug][kind])
		}
		t.AppendRow(row)
	}

	t.Render()
}
