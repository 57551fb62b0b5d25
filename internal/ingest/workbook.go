package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

var ErrNoTargets = errors.New("workbook contains no usable targets")

// header labels commonly found in the first cell of contact sheets.
var headerLabels = map[string]bool{
	"number":       true,
	"numbers":      true,
	"phone":        true,
	"phone number": true,
	"phone_number": true,
	"msisdn":       true,
	"contact":      true,
}

// ParseWorkbook reads an uploaded contact workbook (first sheet, first
// column) into an ordered target batch. Whitespace-only cells are dropped so
// the dispatch engine never sees an empty target; duplicates are kept as-is.
// An optional header row is skipped.
func ParseWorkbook(r io.Reader, label string) (domain.TargetBatch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.TargetBatch{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return domain.TargetBatch{}, ErrNoTargets
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.TargetBatch{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	targets := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if i == 0 && headerLabels[strings.ToLower(cell)] {
			continue
		}
		targets = append(targets, cell)
	}

	if len(targets) == 0 {
		return domain.TargetBatch{}, ErrNoTargets
	}

	return domain.TargetBatch{
		Label:   label,
		Targets: targets,
	}, nil
}

// BatchCache holds the most recently uploaded batch for the service. Runs
// started without explicit targets fall back to it.
type BatchCache struct {
	mu    sync.RWMutex
	batch *domain.TargetBatch
}

func NewBatchCache() *BatchCache {
	return &BatchCache{}
}

func (c *BatchCache) Set(batch domain.TargetBatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batch = &batch
}

func (c *BatchCache) Get() (domain.TargetBatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.batch == nil {
		return domain.TargetBatch{}, false
	}
	return *c.batch, true
}
