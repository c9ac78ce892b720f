package secretstore

import "sync"

// keyLocks holds one mutex per known key. The key set is fixed, so the map
// is built once and only read afterwards.
type keyLocks map[Key]*sync.Mutex

func newKeyLocks() keyLocks {
	l := make(keyLocks, len(AllKeys()))
	for _, k := range AllKeys() {
		l[k] = &sync.Mutex{}
	}
	return l
}

func (l keyLocks) lock(k Key) func() {
	m := l[k]
	m.Lock()
	return m.Unlock
}

// lockMany acquires the locks of keys in AllKeys order so that concurrent
// multi-key writers cannot deadlock.
func (l keyLocks) lockMany(keys []Key) func() {
	want := make(map[Key]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	var held []*sync.Mutex
	for _, k := range AllKeys() {
		if want[k] {
			m := l[k]
			m.Lock()
			held = append(held, m)
		}
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
