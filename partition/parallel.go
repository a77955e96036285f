package partition

import (
	"context"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/flowbase/flowbase"
	"golang.org/x/sync/errgroup"

	"github.com/rdfio/rdf2void/store"
)

// subjectRange is a contiguous, inclusive range of subject IDs.
type subjectRange struct {
	lo, hi store.ID
}

// splitSubjects divides the subject IDs 1..n into at most k contiguous
// ranges of near-equal size.
func splitSubjects(n int64, k int) []subjectRange {
	if n <= 0 || k <= 0 {
		return nil
	}
	if int64(k) > n {
		k = int(n)
	}
	ranges := make([]subjectRange, 0, k)
	size, rest := n/int64(k), n%int64(k)
	lo := int64(1)
	for i := 0; i < k; i++ {
		hi := lo + size - 1
		if int64(i) < rest {
			hi++
		}
		ranges = append(ranges, subjectRange{lo: store.ID(lo), hi: store.ID(hi)})
		lo = hi + 1
	}
	return ranges
}

// attributeParallel runs pass 2 over disjoint subject ranges. Every worker
// has its own caches and partial partitions, merged into parts once all
// workers are done. Subject-major order holds within each range, so the
// subject cache works the same as in the sequential scan.
func (a *Analyzer) attributeParallel(ctx context.Context, parts *Partitions) error {
	it, total, err := a.st.Search(store.Wildcard, store.Wildcard, store.Wildcard)
	if err != nil {
		return err
	}
	it.Close()
	ranges := splitSubjects(a.st.Stats().Subjects, a.opts.Workers)
	a.logf("  Total triples to process: %s (%d workers)", humanize.Comma(total), len(ranges))

	var done atomic.Int64
	scanners := make([]*scanner, len(ranges))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		sc := a.newScanner(New())
		scanners[i] = sc
		g.Go(func() error {
			return sc.scanRange(ctx, r, &done, total)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, sc := range scanners {
		parts.Merge(sc.parts)
		a.report.add(sc.report)
	}
	return nil
}

func (sc *scanner) scanRange(ctx context.Context, r subjectRange, done *atomic.Int64, total int64) error {
	flowbase.Debug.Printf("Scanning subjects %d..%d\n", r.lo, r.hi)
	for s := r.lo; s <= r.hi; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		it, _, err := sc.a.st.Search(s, store.Wildcard, store.Wildcard)
		if err != nil {
			return err
		}
		for it.Next() {
			if err := sc.visit(it.Triple()); err != nil {
				it.Close()
				return err
			}
			n := done.Add(1)
			if sc.a.opts.ProgressInterval > 0 && n%sc.a.opts.ProgressInterval == 0 {
				sc.a.logf("  Pass 2: %s/%s triples", humanize.Comma(n), humanize.Comma(total))
			}
		}
		err = it.Err()
		it.Close()
		if err != nil {
			return err
		}
	}
	flowbase.Debug.Printf("Subjects %d..%d done: %d triples, %d searches\n",
		r.lo, r.hi, sc.report.Triples, sc.report.TypeSearches)
	return nil
}
