package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/salustiana/o-sea/pkg/model"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestAppend_CreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSV(dir)
	if err != nil {
		t.Fatalf("NewCSV failed: %v", err)
	}

	err = s.Append("some-collection", model.KindNFTData, model.OwnershipHeader(), [][]string{
		{"0xcccc", "1", "0xaaaa"},
		{"0xcccc", "2", "0xbbbb"},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rows := readAll(t, filepath.Join(dir, "some-collection", "nft_data.csv"))
	if len(rows) != 3 {
		t.Fatalf("file has %d rows, want header plus 2", len(rows))
	}
	if rows[0][0] != "contract_address" || rows[0][2] != "owner" {
		t.Errorf("header = %v, want the ownership schema", rows[0])
	}
	if rows[1][1] != "1" || rows[2][1] != "2" {
		t.Errorf("data rows = %v, want appended in order", rows[1:])
	}
}

func TestAppend_EmptyBatchCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSV(dir)
	if err != nil {
		t.Fatalf("NewCSV failed: %v", err)
	}
	defer s.Close()

	if err := s.Append("some-collection", model.KindListings, model.ListingHeader(), nil); err != nil {
		t.Fatalf("Append of an empty batch failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "some-collection", "listings.csv")); !os.IsNotExist(err) {
		t.Error("empty batch created a file")
	}
}

func TestAppend_SeparateFilesPerSlugAndKind(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSV(dir)
	if err != nil {
		t.Fatalf("NewCSV failed: %v", err)
	}

	row := [][]string{{"0xcccc", "1", "0xaaaa"}}
	if err := s.Append("alpha", model.KindNFTData, model.OwnershipHeader(), row); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("beta", model.KindNFTData, model.OwnershipHeader(), row); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, slug := range []string{"alpha", "beta"} {
		rows := readAll(t, filepath.Join(dir, slug, "nft_data.csv"))
		if len(rows) != 2 {
			t.Errorf("%s file has %d rows, want 2", slug, len(rows))
		}
	}
}

func TestAppend_ConcurrentBatchesStayContiguous(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSV(dir)
	if err != nil {
		t.Fatalf("NewCSV failed: %v", err)
	}

	const writers = 20
	const batchSize = 5

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			batch := make([][]string, batchSize)
			for j := range batch {
				batch[j] = []string{fmt.Sprintf("0x%040d", id), fmt.Sprint(j), "0xaaaa"}
			}
			if err := s.Append("some-collection", model.KindNFTData, model.OwnershipHeader(), batch); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	rows := readAll(t, filepath.Join(dir, "some-collection", "nft_data.csv"))
	if len(rows) != 1+writers*batchSize {
		t.Fatalf("file has %d rows, want header plus %d", len(rows), writers*batchSize)
	}

	// Each writer's batch must land as one contiguous run.
	for i := 1; i < len(rows); i += batchSize {
		owner := rows[i][0]
		for j := 1; j < batchSize; j++ {
			if rows[i+j][0] != owner {
				t.Fatalf("batch starting at row %d interleaves %q with %q", i, owner, rows[i+j][0])
			}
		}
	}
}
