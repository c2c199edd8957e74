package gitcas

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/tree"
)

// Problem describes one object that failed verification.
type Problem struct {
	Address Address
	Err     error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %v", p.Address, p.Err)
}

// VerifyReport is the result of Verify.
type VerifyReport struct {
	Checked  int
	Blobs    int
	Trees    int
	Problems []Problem
}

// OK reports whether every object verified.
func (r *VerifyReport) OK() bool { return len(r.Problems) == 0 }

// Verify reads every stored object, re-hashes its envelope and, for trees,
// decodes every entry. Broken objects are reported, not returned as errors;
// the error is reserved for failures to enumerate the store.
func (r *Repository) Verify(ctx context.Context) (*VerifyReport, error) {
	var hashes []string
	for hash, err := range r.objects.Walk(ctx) {
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	report := &VerifyReport{Checked: len(hashes)}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(r.opts.Concurrency).WithContext(ctx)
	for _, hash := range hashes {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			t, err := r.verifyObject(ctx, hash)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Problems = append(report.Problems, Problem{Address: Address(hash), Err: err})
			case t == TypeBlob:
				report.Blobs++
			case t == TypeTree:
				report.Trees++
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Problems, func(i, j int) bool {
		return report.Problems[i].Address < report.Problems[j].Address
	})
	for _, problem := range report.Problems {
		r.log.Warn("object failed verification",
			zap.Stringer("address", problem.Address),
			zap.Error(problem.Err))
	}

	return report, nil
}

func (r *Repository) verifyObject(ctx context.Context, hash string) (ObjectType, error) {
	envelope, err := r.objects.ReadEnvelope(ctx, hash)
	if err != nil {
		return "", err
	}

	if got := object.Hash(envelope); got != hash {
		return "", fmt.Errorf("%w: content hashes to %s", ErrCorruptObject, got)
	}

	t, _, payload, err := object.Decode(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptObject, err)
	}

	switch t {
	case TypeBlob:
	case TypeTree:
		for _, err := range tree.Decode(payload) {
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrCorruptObject, err)
			}
		}
	default:
		return "", fmt.Errorf("%w: %w %q", ErrCorruptObject, ErrUnknownType, t)
	}

	return t, nil
}
