package validate

import (
	"runtime"
	"sync"

	"github.com/enasequence/sequencetools-sub002/internal/cds"
	"github.com/enasequence/sequencetools-sub002/internal/entry"
)

// WorkItem holds a coding feature ready for translation.
type WorkItem struct {
	Seq      int
	Entry    *entry.Entry
	Feature  *entry.Feature
	Location string
}

// WorkResult holds the translation report for a single feature.
type WorkResult struct {
	Seq      int
	Entry    *entry.Entry
	Feature  *entry.Feature
	Location string
	Report   *cds.Report
}

// ParallelTranslate translates items on a pool of workers and sends the
// reports in completion order. Zero workers means one per CPU.
func (v *Validator) ParallelTranslate(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:      item.Seq,
					Entry:    item.Entry,
					Feature:  item.Feature,
					Location: item.Location,
					Report:   v.translator.Translate(item.Feature, item.Entry),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in Seq order, holding early
// arrivals until their predecessors are done. If fn fails the remaining
// results are discarded and the error returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r
		for {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				// workers block on a full channel otherwise
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
