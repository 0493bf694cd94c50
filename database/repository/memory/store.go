// Package memory provides in-process implementations of the repository interfaces.
// They back the service and handler tests and follow the same error contract as the
// Mongo repositories: repository.ErrNotFound and repository.ErrDuplicate.
package memory

import (
	"fmt"
	"sync"

	"wheelstrust/database/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// store keeps documents in their stored (bson) form, keyed by id, in insertion order.
type store[T any] struct {
	name  string
	mu    sync.RWMutex
	docs  map[string]bson.M
	order []string
}

func newStore[T any](name string) *store[T] {
	return &store[T]{name: name, docs: map[string]bson.M{}}
}

func (s *store[T]) decode(doc bson.M) T {
	var out T
	fromDoc(doc, &out)
	return out
}

// insert adds v unless conflict reports a clash with an existing document.
func (s *store[T]) insert(id string, v T, conflict func(existing bson.M, candidate bson.M) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := toDoc(v)
	if _, exists := s.docs[id]; exists {
		return fmt.Errorf("create %s: %w", s.name, repository.ErrDuplicate)
	}
	if conflict != nil {
		for _, existing := range s.docs {
			if conflict(existing, doc) {
				return fmt.Errorf("create %s: %w", s.name, repository.ErrDuplicate)
			}
		}
	}
	s.docs[id] = doc
	s.order = append(s.order, id)
	return nil
}

func (s *store[T]) get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s %s: %w", s.name, id, repository.ErrNotFound)
	}
	return s.decode(doc), nil
}

func (s *store[T]) find(filter bson.M, order bson.D) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.matching(filter)
	sortDocs(docs, order)
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.decode(d))
	}
	return out
}

func (s *store[T]) matching(filter bson.M) []bson.M {
	var docs []bson.M
	for _, id := range s.order {
		if doc := s.docs[id]; matches(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (s *store[T]) count(filter bson.M) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(filter)))
}

// page mirrors repository.FindPage.
func (s *store[T]) page(q repository.ListQuery) ([]T, int64, repository.ListQuery) {
	q = q.Normalize()
	all := s.find(q.Filter, q.Sort)
	total := int64(len(all))

	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, q
}

// update applies fn to the stored document under the write lock. fn returns the new
// document or an error; conflict, when set, is checked against every other document.
func (s *store[T]) update(id string, fn func(doc bson.M) (bson.M, error), conflict func(existing, candidate bson.M) bool) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	doc, ok := s.docs[id]
	if !ok {
		return zero, fmt.Errorf("update %s %s: %w", s.name, id, repository.ErrNotFound)
	}
	next, err := fn(cloneDoc(doc))
	if err != nil {
		return zero, err
	}
	next = toDoc(next)
	if conflict != nil {
		for otherID, existing := range s.docs {
			if otherID != id && conflict(existing, next) {
				return zero, fmt.Errorf("update %s %s: %w", s.name, id, repository.ErrDuplicate)
			}
		}
	}
	s.docs[id] = next
	return s.decode(next), nil
}

// updateMany applies fn to every document matching filter and returns how many changed.
func (s *store[T]) updateMany(filter bson.M, fn func(doc bson.M) bson.M) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range s.order {
		if doc := s.docs[id]; matches(doc, filter) {
			s.docs[id] = toDoc(fn(cloneDoc(doc)))
			n++
		}
	}
	return n
}

func (s *store[T]) remove(filter bson.M) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	kept := s.order[:0]
	for _, id := range s.order {
		if matches(s.docs[id], filter) {
			delete(s.docs, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return n
}

func cloneDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func setFields(doc bson.M, fields bson.M) bson.M {
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}
