package coflux

import "sync"

// WhenAll waits for every fork to reach a terminal status and returns their
// values in argument order. The first error observed (in completion order,
// not argument order) cancels every other still-running fork and becomes
// WhenAll's error; WhenAll still waits for all of them to actually finish
// unwinding before returning, since they remain this computation's
// structurally-owned children (invariant I1) regardless of how the
// combinator itself resolves.
//
// Grounded on combiner.hpp's when_all, generalized from the source's
// compile-time heterogeneous tuple (when_all_tuple<Ty...>) to a homogeneous
// slice: Go has no variadic generics, so a single-type slice is the
// idiomatic Go shape for "wait for N concurrent results of the same kind".
// Mixed-type joins are expressed by awaiting each Fork individually with
// Await.
func WhenAll[T any](forks ...*Fork[T]) ([]T, error) {
	n := len(forks)
	results := make([]T, n)
	var wg sync.WaitGroup
	wg.Add(n)
	var once sync.Once
	var firstErr error
	for i, f := range forks {
		i, f := i, f
		go func() {
			defer wg.Done()
			v, err := Await(f)
			if err != nil {
				once.Do(func() {
					firstErr = err
					for _, other := range forks {
						other.Cancel(err)
					}
				})
				return
			}
			results[i] = v
		}()
	}
	wg.Wait()
	return results, firstErr
}

// WhenAny returns as soon as the first of forks reaches a terminal status
// (success or failure alike — whichever finishes first wins), cancelling
// every other fork and awaiting their termination before returning, per
// combiner.hpp's when_any contract: every fork is terminal by the time the
// caller regains control, not merely the winner. Grounded on combiner.hpp's
// when_any: a CAS on a shared "winner" slot decides which awaiting side
// resumes the combinator, which Go's buffered result channel (first send
// wins the read) expresses directly.
func WhenAny[T any](forks ...*Fork[T]) (T, error) {
	var zero T
	if len(forks) == 0 {
		return zero, ErrNoWinner
	}
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, len(forks))
	for _, f := range forks {
		f := f
		go func() {
			v, err := Await(f)
			ch <- outcome{v: v, err: err}
		}()
	}
	first := <-ch
	for _, f := range forks {
		f.Cancel(nil)
	}
	for i := 1; i < len(forks); i++ {
		<-ch
	}
	return first.v, first.err
}

// WhenN waits for the first n successes among forks, in completion order
// (not argument order), cancelling the remainder once n are collected and
// awaiting every fork's termination — winners and losers alike — before
// returning, matching combiner.hpp's when_n contract. Errors observed before
// the n-th success are ignored unless too many forks have already failed for
// n successes to still be reachable, in which case WhenN fails fast with that
// error and the partial results collected so far, still waiting out the
// remaining forks before returning.
func WhenN[T any](n int, forks ...*Fork[T]) ([]T, error) {
	total := len(forks)
	if n <= 0 {
		return nil, nil
	}
	if n > total {
		n = total
	}
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, total)
	for _, f := range forks {
		f := f
		go func() {
			v, err := Await(f)
			ch <- outcome{v: v, err: err}
		}()
	}

	results := make([]T, 0, n)
	failed := 0
	var retErr error
	decided := false
	for remaining := total; remaining > 0; remaining-- {
		o := <-ch
		if decided {
			continue
		}
		if o.err == nil {
			results = append(results, o.v)
			if len(results) == n {
				for _, f := range forks {
					f.Cancel(nil)
				}
				decided = true
			}
			continue
		}
		failed++
		if total-failed < n {
			for _, f := range forks {
				f.Cancel(nil)
			}
			retErr = WrapError("coflux: when_n can no longer reach the required success count", o.err)
			decided = true
		}
	}
	return results, retErr
}

// CollectErrors inspects every terminal view's outcome and returns an
// AggregateError enumerating all of them, or nil if none failed. Views still
// running are skipped rather than awaited, so it is meant for after a
// combinator has already joined every fork (e.g. WhenAll, whose own return
// value is always only the first-observed error) — a caller who additionally
// wants the full set of failures takes a ForkView of each fork beforehand and
// calls CollectErrors once the combinator returns.
func CollectErrors[T any](views ...*ForkView[T]) *AggregateError {
	var errs []error
	for _, v := range views {
		if _, err, ok := v.TryResult(); ok && err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
