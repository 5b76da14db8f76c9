package state

import (
	"reflect"
	"sync"
)

// Select subscribes fn to the slice of state picked by sel. fn runs only when
// the selected value differs from the previous one according to eq
// (reflect.DeepEqual when eq is nil). Snapshots older than the last one seen
// are dropped.
func Select[T any](s *Store, sel func(State) T, eq func(a, b T) bool, fn func(T)) func() {
	if eq == nil {
		eq = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	var (
		mu   sync.Mutex
		prev T
		rev  uint64
	)
	seed := func(st State) {
		mu.Lock()
		prev, rev = sel(st), st.rev
		mu.Unlock()
	}
	return s.subscribeAt(seed, func(st State) {
		mu.Lock()
		if st.rev <= rev {
			mu.Unlock()
			return
		}
		cur := sel(st)
		changed := !eq(prev, cur)
		prev, rev = cur, st.rev
		mu.Unlock()
		if changed {
			fn(cur)
		}
	})
}
