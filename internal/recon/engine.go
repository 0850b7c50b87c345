// Package recon performs the three-way reconciliation between a room's
// expected inventory and an operator's scan, including cross-file
// resolution of misplaced codes.
package recon

import (
	"context"
	"log"
	"sort"
	"sync"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/tabular"
)

// ScopeFile is one document consulted when resolving misplaced codes. The
// slice order given to Reconcile is the tie-break order: earlier files win.
type ScopeFile struct {
	Name string
	Data []byte

	// ExcludeSheet skips the target room's own sheet. For sliced rooms only
	// the block rows are excluded (ExcludeStart/ExcludeEnd, 1-indexed,
	// EndRow 0 = to end of sheet); with both at zero the whole sheet is
	// skipped.
	ExcludeSheet string
	ExcludeStart int
	ExcludeEnd   int
}

func (s *ScopeFile) excludesRow(sheet string, row int) bool {
	if sheet != s.ExcludeSheet {
		return false
	}
	if s.ExcludeStart == 0 && s.ExcludeEnd == 0 {
		return true
	}
	if row < s.ExcludeStart {
		return false
	}
	return s.ExcludeEnd == 0 || row <= s.ExcludeEnd
}

// Engine reconciles expected items against scanned codes.
type Engine struct {
	concurrency int
}

// NewEngine creates an Engine with a bounded cross-reference worker pool.
func NewEngine(cfg config.ReconConfig) *Engine {
	n := cfg.Concurrency
	if n <= 0 {
		n = 1
	}
	return &Engine{concurrency: n}
}

// fileMatch is the first occurrence of a candidate code within one file.
type fileMatch struct {
	sheet  string
	rowIdx int
	row    []string
}

// fileOutcome is the result of scanning one scope file for candidates.
type fileOutcome struct {
	matches  map[string]fileMatch
	err      error
	canceled bool
}

// Reconcile partitions codes into verified, missing, and misplaced, then
// resolves misplaced candidates across the search scope. Scope files are
// scanned in parallel, but the merge applies the fixed scope ordering, so
// identical inputs always produce identical resolutions. Scope files that
// cannot be read, and cancellation, degrade the result to Incomplete
// instead of failing it.
func (e *Engine) Reconcile(ctx context.Context, expected []domain.ExpectedItem, scanned domain.ScanSet, scope []ScopeFile) (*domain.ReconciliationResult, error) {
	result := &domain.ReconciliationResult{}

	expectedCodes := make(map[string]struct{}, len(expected))
	for _, item := range expected {
		expectedCodes[item.Code] = struct{}{}
		if scanned.Contains(item.Code) {
			result.Verified = append(result.Verified, item)
		} else {
			result.Missing = append(result.Missing, item)
		}
	}

	candidates := make(map[string]struct{})
	for code := range scanned {
		if _, ok := expectedCodes[code]; !ok {
			candidates[code] = struct{}{}
		}
	}
	if len(candidates) == 0 {
		return result, nil
	}

	outcomes := e.scanScope(ctx, candidates, scope)

	// Merge in scope order; a candidate resolved by an earlier file is never
	// overwritten by a later one.
	resolved := make(map[string]domain.MisplacedItem, len(candidates))
	for i, outcome := range outcomes {
		if outcome.err != nil {
			log.Printf("recon: skipping unreadable search-scope file %s: %v", scope[i].Name, outcome.err)
			result.FailedSources = append(result.FailedSources, scope[i].Name)
			result.Incomplete = true
			continue
		}
		if outcome.canceled {
			result.Incomplete = true
		}
		for code, m := range outcome.matches {
			if _, done := resolved[code]; done {
				continue
			}
			resolved[code] = domain.MisplacedItem{
				Code:     code,
				Location: m.sheet,
				Resolved: &domain.FoundLocation{
					Document: scope[i].Name,
					Sheet:    m.sheet,
					RowIndex: m.rowIdx,
				},
				SourceRow: m.row,
			}
		}
	}

	for _, code := range sortedCodes(candidates) {
		if item, ok := resolved[code]; ok {
			result.Misplaced = append(result.Misplaced, item)
			continue
		}
		result.Misplaced = append(result.Misplaced, domain.MisplacedItem{
			Code:     code,
			Location: domain.SentinelNotFound,
		})
	}
	return result, nil
}

// scanScope runs the per-file scans on a bounded worker pool. Outcomes are
// indexed by scope position regardless of completion order.
func (e *Engine) scanScope(ctx context.Context, candidates map[string]struct{}, scope []ScopeFile) []fileOutcome {
	outcomes := make([]fileOutcome, len(scope))
	if len(scope) == 0 {
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := e.concurrency
	if workers > len(scope) {
		workers = len(scope)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = scanFile(ctx, &scope[i], candidates)
			}
		}()
	}
	for i := range scope {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

// scanFile looks for candidate codes anywhere in one document. Within the
// file the first occurrence wins (sheet order, then row order); scanning
// stops early once every candidate has been seen.
func scanFile(ctx context.Context, sf *ScopeFile, candidates map[string]struct{}) fileOutcome {
	if err := ctx.Err(); err != nil {
		return fileOutcome{canceled: true}
	}

	doc, err := tabular.Open(sf.Name, sf.Data)
	if err != nil {
		return fileOutcome{err: err}
	}
	defer func() { _ = doc.Close() }()

	matches := make(map[string]fileMatch)
	for _, sheet := range doc.Sheets() {
		if len(matches) == len(candidates) {
			break
		}
		canceled, err := scanSheet(ctx, doc, sf, sheet, candidates, matches)
		if err != nil {
			return fileOutcome{err: err}
		}
		if canceled {
			return fileOutcome{matches: matches, canceled: true}
		}
	}
	return fileOutcome{matches: matches}
}

func scanSheet(ctx context.Context, doc *tabular.Document, sf *ScopeFile, sheet string, candidates map[string]struct{}, matches map[string]fileMatch) (canceled bool, err error) {
	if sheet == sf.ExcludeSheet && sf.ExcludeStart == 0 && sf.ExcludeEnd == 0 {
		return false, nil
	}

	it, err := doc.Rows(sheet)
	if err != nil {
		return false, err
	}
	defer func() { _ = it.Close() }()

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return true, nil
		}
		cells, err := it.Cells()
		if err != nil {
			return false, err
		}
		if sf.excludesRow(sheet, it.Index()) {
			continue
		}
		for _, cell := range cells {
			if cell == "" {
				continue
			}
			if _, want := candidates[cell]; !want {
				continue
			}
			if _, have := matches[cell]; have {
				continue
			}
			matches[cell] = fileMatch{
				sheet:  sheet,
				rowIdx: it.Index(),
				row:    append([]string(nil), cells...),
			}
		}
		if len(matches) == len(candidates) {
			return false, nil
		}
	}
	return false, nil
}

func sortedCodes(set map[string]struct{}) []string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
