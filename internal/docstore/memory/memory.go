package docstore_memory

import (
	"context"
	"sync"

	"github.com/VICHiNG16/MusicDuel/internal/docstore"
)

// Store is an in-process document store. It backs the protocol tests and
// single-node deployments where Redis is not configured.
type Store struct {
	mu   sync.Mutex
	docs map[string]docstore.Snapshot
	subs map[string]map[*subscriber]struct{}
}

func New() *Store {
	return &Store{
		docs: make(map[string]docstore.Snapshot),
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// subscriber queues snapshots so delivery preserves write order without
// holding the store lock through user callbacks.
type subscriber struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []docstore.Snapshot
	closed bool
}

func newSubscriber() *subscriber {
	s := &subscriber{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) push(snap docstore.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, snap)
	s.cond.Signal()
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Signal()
}

func (s *subscriber) drain(fn func(docstore.Snapshot)) {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		snap := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		fn(snap)
	}
}

func (s *Store) Write(ctx context.Context, key string, fields map[string]any) error {
	raw, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		doc = make(docstore.Snapshot)
		s.docs[key] = doc
	}
	for field, value := range raw {
		if value == nil {
			delete(doc, field)
			continue
		}
		doc[field] = value
	}

	s.notifyLocked(key)
	return nil
}

func (s *Store) Replace(ctx context.Context, key string, fields map[string]any) error {
	raw, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(docstore.Snapshot, len(raw))
	for field, value := range raw {
		if value == nil {
			continue
		}
		doc[field] = value
	}
	s.docs[key] = doc

	s.notifyLocked(key)
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (docstore.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		return docstore.Snapshot{}, false, nil
	}
	return doc.Clone(), true, nil
}

func (s *Store) Subscribe(ctx context.Context, key string, fn func(docstore.Snapshot)) (docstore.Unsubscribe, error) {
	sub := newSubscriber()

	s.mu.Lock()
	if _, ok := s.subs[key]; !ok {
		s.subs[key] = make(map[*subscriber]struct{})
	}
	s.subs[key][sub] = struct{}{}

	// Initial delivery mirrors a live-subscription attach: the subscriber
	// sees the current document before any further mutations.
	if doc, ok := s.docs[key]; ok {
		sub.push(doc.Clone())
	} else {
		sub.push(docstore.Snapshot{})
	}
	s.mu.Unlock()

	go sub.drain(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[key], sub)
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
			s.mu.Unlock()
			sub.close()
		})
	}, nil
}

func (s *Store) notifyLocked(key string) {
	doc := s.docs[key]
	for sub := range s.subs[key] {
		sub.push(doc.Clone())
	}
}
