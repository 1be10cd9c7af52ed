package repository

import "sync"

// subscribers tracks external-change callbacks per key
type subscribers struct {
	mu     sync.RWMutex
	nextID int
	byKey  map[string]map[int]ChangeFunc
}

func newSubscribers() *subscribers {
	return &subscribers{byKey: make(map[string]map[int]ChangeFunc)}
}

func (s *subscribers) add(key string, fn ChangeFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.byKey[key] == nil {
		s.byKey[key] = make(map[int]ChangeFunc)
	}
	s.byKey[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.byKey[key], id)
			if len(s.byKey[key]) == 0 {
				delete(s.byKey, key)
			}
		})
	}
}

func (s *subscribers) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	return keys
}

func (s *subscribers) has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey[key]) > 0
}

// notify calls every callback for key outside the lock; each gets its own copy
func (s *subscribers) notify(key string, value []byte) {
	s.mu.RLock()
	fns := make([]ChangeFunc, 0, len(s.byKey[key]))
	for _, fn := range s.byKey[key] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(append([]byte(nil), value...))
	}
}
