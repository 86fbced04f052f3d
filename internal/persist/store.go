// Package persist keeps the workspace in one durable slot with debounced writes and
// falls back to a starter template when the slot is missing or unreadable.
package persist

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
)

// writeRecorder receives the outcome of every slot write.
type writeRecorder interface {
	ObserveSlotWrite(err error)
}

// Store serializes observed documents into a Slot. Writes are debounced: a burst of
// Observe calls produces one write once the burst has been quiet for the delay.
type Store struct {
	slot    Slot
	delay   time.Duration
	log     *zap.Logger
	metrics writeRecorder

	writeMu  sync.Mutex // serializes slot writes so an older document never lands last
	notifyMu sync.Mutex // orders listener calls the same as status changes

	mu        sync.Mutex
	pending   []byte
	timer     *time.Timer
	status    Status
	listeners []func(Status)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = logging.OrNop(l) }
}

// WithMetrics records slot writes.
func WithMetrics(m writeRecorder) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a store writing to slot after delay.
func NewStore(slot Slot, delay time.Duration, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		delay:  delay,
		log:    zap.NewNop(),
		status: StatusSaved,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the slot. When the slot is empty, unreadable or holds a document whose
// nodes cannot form a graph, the fallback template is returned instead with its file
// selected and open. restored reports whether the slot was used.
func (s *Store) Load(fallback template.Kind) (doc Document, restored bool, err error) {
	data, err := s.slot.Read()
	switch {
	case errors.Is(err, ErrSlotEmpty):
		s.log.Info("slot empty, loading starter template", zap.String("template", string(fallback)))
	case err != nil:
		s.log.Warn("slot unreadable, loading starter template", zap.Error(err))
	default:
		if doc, err := decode(data); err != nil {
			s.log.Warn("slot corrupt, loading starter template", zap.Error(err))
		} else {
			return doc, true, nil
		}
	}

	nodes, err := template.Load(fallback)
	if err != nil {
		return Document{}, false, err
	}
	doc = Document{Files: nodes, ActiveID: nodes[0].ID}
	for _, n := range nodes {
		doc.OpenIDs = append(doc.OpenIDs, n.ID)
	}
	return doc, false, nil
}

func decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if _, err := graph.FromNodes(doc.Files); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Observe records a new document and (re)arms the write timer.
func (s *Store) Observe(doc Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("failed to serialize workspace", zap.Error(err))
		s.setStatus(StatusError)
		return
	}

	// saving is published before the timer can fire, so saved always follows it.
	s.transition(func() (Status, bool) {
		s.pending = data
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.delay, func() { _ = s.write() })
		return StatusSaving, true
	})
}

// Flush writes any pending document now.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.write()
}

// Close flushes the pending document. The store must not be used afterwards.
func (s *Store) Close() error {
	return s.Flush()
}

func (s *Store) write() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	data := s.pending
	s.pending = nil
	s.mu.Unlock()
	if data == nil {
		return nil
	}

	err := s.slot.Write(data)
	if s.metrics != nil {
		s.metrics.ObserveSlotWrite(err)
	}
	if err != nil {
		s.log.Error("slot write failed", zap.String("slot", s.slot.Name()), zap.Error(err))
		s.setStatus(StatusError)
		return err
	}
	s.log.Debug("slot written", zap.String("slot", s.slot.Name()), zap.Int("bytes", len(data)))

	// A document observed during the write keeps the indicator at saving.
	s.transition(func() (Status, bool) { return StatusSaved, s.pending == nil })
	return nil
}

// MarkError sets the indicator to error, as after a failed deploy.
func (s *Store) MarkError() {
	s.setStatus(StatusError)
}

// Status returns the current indicator value.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnStatus registers fn to be called on every status change. Calls are serialized in
// the order the changes happened; fn must not call back into the store.
func (s *Store) OnStatus(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) setStatus(status Status) {
	s.transition(func() (Status, bool) { return status, true })
}

// transition runs fn under the state lock and applies the status it returns when ok.
// Listeners are notified before any later transition can start.
func (s *Store) transition(fn func() (status Status, ok bool)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	status, ok := fn()
	changed := ok && s.status != status
	if changed {
		s.status = status
	}
	listeners := append([]func(Status){}, s.listeners...)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, l := range listeners {
		l(status)
	}
}
