package snmp

import (
	"context"

	"github.com/pkg/errors"
)

// Walker is invoked for each varbind produced by a Walk, in ascending OID
// order. Returning an error aborts the walk.
type Walker func(vb *Varbind) error

// WalkOptions controls the walk engine's termination and traversal rules,
// mirroring the CLI's `-C` sub-flags (spec.md §6).
type WalkOptions struct {
	// Bulk selects GETBULK-driven traversal instead of GETNEXT.
	// NonRepeaters/MaxRepetitions are only meaningful when Bulk is set.
	Bulk           bool
	NonRepeaters   int
	MaxRepetitions int

	// CheckIncrease rejects a non-increasing response OID with
	// ErrWalkMonotonicity. Default true; CLI's `-C c` disables it.
	CheckIncrease bool

	// IncludeStart issues one GET(start) before walking begins (`-C i`).
	IncludeStart bool

	// FallbackOnEmpty issues GET(start) if the walk emits nothing (default
	// true; CLI's `-C I` disables it).
	FallbackOnEmpty bool

	// End, if non-nil, stops the walk at the first response OID equal to
	// or sorting after End; End itself is not emitted (`-C E endoid`).
	End OID
}

// DefaultWalkOptions returns the CLI's documented defaults: monotonicity
// checked, no included start GET, fallback GET on an empty walk, GETNEXT
// traversal.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{CheckIncrease: true, FallbackOnEmpty: true}
}

// Walk implements the walk state machine from spec.md §4.7: it converts a
// sequence of GETNEXT or GETBULK responses into an ordered, terminating
// enumeration of root's subtree.
func (s *sessionImpl) Walk(ctx context.Context, root OID, opts WalkOptions, fn Walker) error {
	emitted := 0

	if opts.IncludeStart {
		resp, err := s.Get(ctx, []OID{root})
		if err != nil {
			return err
		}
		if err := checkWalkErrorStatus(resp, root); err != nil {
			return err
		}
		for i := range resp.Varbinds {
			vb := &resp.Varbinds[i]
			if vb.Value.IsException() {
				continue
			}
			if err := fn(vb); err != nil {
				return err
			}
			emitted++
		}
	}

	last := root.Clone()
outer:
	for {
		resp, err := s.nextBatch(ctx, last, opts)
		if err != nil {
			return err
		}
		if err := checkWalkErrorStatus(resp, last); err != nil {
			return err
		}
		if len(resp.Varbinds) == 0 {
			break
		}

		for i := range resp.Varbinds {
			vb := &resp.Varbinds[i]

			if vb.Value.IsException() {
				break outer
			}

			cmp := last.Compare(vb.Name)
			if opts.CheckIncrease && cmp == Greater {
				return errors.Wrapf(ErrWalkMonotonicity, "last=%s next=%s", last, vb.Name)
			}
			if cmp == Equal {
				break outer
			}
			if root.Compare(vb.Name) != AAncestorOfB {
				break outer
			}
			if opts.End != nil {
				if c := opts.End.Compare(vb.Name); c != Greater && c != BAncestorOfA {
					break outer
				}
			}

			if err := fn(vb); err != nil {
				return err
			}
			emitted++
			last = vb.Name.Clone()
		}
	}

	if opts.FallbackOnEmpty && emitted == 0 {
		resp, err := s.Get(ctx, []OID{root})
		if err != nil {
			return err
		}
		if err := checkWalkErrorStatus(resp, root); err != nil {
			return err
		}
		for i := range resp.Varbinds {
			vb := &resp.Varbinds[i]
			if vb.Value.IsException() {
				continue
			}
			if err := fn(vb); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *sessionImpl) nextBatch(ctx context.Context, last OID, opts WalkOptions) (*PDU, error) {
	if opts.Bulk {
		return s.GetBulk(ctx, []OID{last}, opts.NonRepeaters, opts.MaxRepetitions)
	}
	return s.GetNext(ctx, []OID{last})
}

// checkWalkErrorStatus converts a non-zero response error-status into a
// *ProtocolError, tagging it with the OID named by error-index when that
// index falls within the response's varbind list, or with fallback
// otherwise.
func checkWalkErrorStatus(resp *PDU, fallback OID) error {
	if resp.Error == NoError {
		return nil
	}
	idx := resp.ErrorIndex
	var oid OID
	if idx >= 1 && int(idx) <= len(resp.Varbinds) {
		oid = resp.Varbinds[idx-1].Name
	} else {
		oid = fallback
	}
	return &ProtocolError{Status: resp.Error, Index: idx, OID: oid}
}
