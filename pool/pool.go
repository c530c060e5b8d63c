// Package pool implements the Value Pool (spec §4.1, C1): named storage of
// typed produced values that decouples producers from consumers, with
// lazy ("passive") allocation so a consumer may resolve a reference to a
// producer that is instantiated later during graph construction.
//
// The pool is deliberately untyped at storage level (reflect.Value /
// interface{} boxes, akin to the original's boost::any) because the module
// boundary is genuinely heterogeneous — see spec §9's note that dynamic
// dispatch at that boundary should not be monomorphised. Handle[T] restores
// static typing for callers.
package pool

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/momemta/momemta-go/inputtag"
)

// Error kinds a Pool operation can fail with (spec §4.1 "Failure modes").
var (
	ErrTagNotFound         = fmt.Errorf("pool: tag not found")
	ErrDuplicateProducer   = fmt.Errorf("pool: duplicate producer")
	ErrIndexedTagForScalar = fmt.Errorf("pool: indexed tag used against a scalar producer")
	ErrTypeMismatch        = fmt.Errorf("pool: type mismatch")
)

// OpError wraps one of the sentinel errors above with the offending tag.
type OpError struct {
	Tag inputtag.InputTag
	Err error
}

func (e *OpError) Error() string { return fmt.Sprintf("%v: %s", e.Err, e.Tag) }
func (e *OpError) Unwrap() error { return e.Err }

type slot struct {
	mu          sync.RWMutex
	value       reflect.Value
	typ         reflect.Type
	hasProducer bool
}

// Pool is a named store of typed slots, one per (module, parameter).
type Pool struct {
	mu     sync.Mutex
	slots  map[inputtag.InputTag]*slot
	frozen bool
}

// New returns an empty, unfrozen Pool.
func New() *Pool {
	return &Pool{slots: make(map[inputtag.InputTag]*slot)}
}

// Freeze prevents further producer registration or passive allocation of
// unknown tags (spec §4.5 step 7: "no new producers accepted").
func (p *Pool) Freeze() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frozen = true
}

func (p *Pool) lookupOrPassiveAllocate(tag inputtag.InputTag, typ reflect.Type) (*slot, error) {
	key := tag.Scalar()
	p.mu.Lock()
	s, ok := p.slots[key]
	if !ok {
		if p.frozen {
			p.mu.Unlock()
			return nil, &OpError{Tag: tag, Err: ErrTagNotFound}
		}
		s = &slot{value: reflect.Zero(typ), typ: typ}
		p.slots[key] = s
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s.mu.RLock()
	declared := s.typ
	s.mu.RUnlock()
	if declared != typ {
		return nil, &OpError{Tag: tag, Err: ErrTypeMismatch}
	}
	return s, nil
}

// Handle is a mutable, shared reference to a produced value. Only the
// producing module should call Set; consumers should treat the Handle
// obtained from Get as read-only (the type system does not enforce this,
// matching the original's const-cast discipline rather than inventing a
// read-only wrapper type per consumer).
type Handle[T any] struct {
	s *slot
}

// Get reads the current value of the slot.
func (h *Handle[T]) Get() T {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return h.s.value.Interface().(T)
}

// Set installs a new value into the slot. Safe to call once per sample
// from the producing module's work().
func (h *Handle[T]) Set(v T) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.value = reflect.ValueOf(v)
}

// Put allocates (or attaches to a passively-allocated) slot for tag and
// returns a mutable handle. tag must not be indexed.
func Put[T any](p *Pool, tag inputtag.InputTag) (*Handle[T], error) {
	if tag.Indexed {
		return nil, &OpError{Tag: tag, Err: ErrIndexedTagForScalar}
	}
	p.mu.Lock()
	frozen := p.frozen
	p.mu.Unlock()
	if frozen {
		return nil, &OpError{Tag: tag, Err: ErrTagNotFound}
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	s, err := p.lookupOrPassiveAllocate(tag, typ)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasProducer {
		return nil, &OpError{Tag: tag, Err: ErrDuplicateProducer}
	}
	s.hasProducer = true
	return &Handle[T]{s: s}, nil
}

// Get returns a read handle for tag, passively allocating the slot (with a
// zero T) if it does not exist yet and the pool isn't frozen. tag must not
// be indexed; use GetIndexed for vector element access.
func Get[T any](p *Pool, tag inputtag.InputTag) (*Handle[T], error) {
	if tag.Indexed {
		return nil, &OpError{Tag: tag, Err: ErrIndexedTagForScalar}
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	s, err := p.lookupOrPassiveAllocate(tag, typ)
	if err != nil {
		return nil, err
	}
	return &Handle[T]{s: s}, nil
}

// IndexedHandle is a read-only proxy over one element of a vector-valued
// slot; dereferencing (Get) is deferred to access time so the producer may
// freely resize the underlying slice between samples (spec §4.1
// "Rationale").
type IndexedHandle[T any] struct {
	s     *slot
	index int
}

// Get reads element [index] of the underlying slice at access time.
func (h *IndexedHandle[T]) Get() T {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return h.s.value.Index(h.index).Interface().(T)
}

// GetIndexed returns a proxy for tag.Index into a []T-valued producer.
// tag must be indexed; the producer's declared type must be []T.
func GetIndexed[T any](p *Pool, tag inputtag.InputTag) (*IndexedHandle[T], error) {
	if !tag.Indexed {
		return nil, &OpError{Tag: tag, Err: ErrIndexedTagForScalar}
	}
	elemType := reflect.TypeOf((*T)(nil)).Elem()
	sliceType := reflect.SliceOf(elemType)
	p.mu.Lock()
	existing, ok := p.slots[tag.Scalar()]
	p.mu.Unlock()
	if ok {
		existing.mu.RLock()
		kind := existing.typ.Kind()
		existing.mu.RUnlock()
		if kind != reflect.Slice {
			return nil, &OpError{Tag: tag, Err: ErrIndexedTagForScalar}
		}
	}
	s, err := p.lookupOrPassiveAllocate(tag, sliceType)
	if err != nil {
		return nil, err
	}
	return &IndexedHandle[T]{s: s, index: tag.Index}, nil
}

// Alias establishes that the slot named to shares storage with the slot
// named from. from must already exist (possibly only passively); to must
// not exist yet. Both tags must be non-indexed.
func (p *Pool) Alias(from, to inputtag.InputTag) error {
	if from.Indexed || to.Indexed {
		return &OpError{Tag: to, Err: ErrIndexedTagForScalar}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frozen {
		return &OpError{Tag: to, Err: ErrTagNotFound}
	}
	src, ok := p.slots[from]
	if !ok {
		return &OpError{Tag: from, Err: ErrTagNotFound}
	}
	if _, exists := p.slots[to]; exists {
		return &OpError{Tag: to, Err: ErrDuplicateProducer}
	}
	p.slots[to] = src
	return nil
}

// Has reports whether tag's scalar slot has been registered (passively or
// by a producer).
func (p *Pool) Has(tag inputtag.InputTag) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.slots[tag.Scalar()]
	return ok
}

// HasProducer reports whether tag's scalar slot has an installed producer.
func (p *Pool) HasProducer(tag inputtag.InputTag) bool {
	p.mu.Lock()
	s, ok := p.slots[tag.Scalar()]
	p.mu.Unlock()
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasProducer
}
