// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"code.hybscloud.com/atomix"
)

// Queue is one side of a file-backed single-producer single-consumer queue
// of uint32 values.
//
// The producer process writes fixed-width records into slots of the
// backing file and publishes how far it has written in the rear cursor
// file. The consumer reads slots and publishes how far it has read in the
// front cursor file. Each side refreshes its view of the peer's cursor at
// the start of every Push or Pop; nothing else is shared.
//
// Push, Pop and Close must be called from a single goroutine. The
// [Snapshot] methods, Front and Rear may be called from any goroutine.
type Queue struct {
	head   atomix.Uint64 // Elements popped; advanced by the consumer
	tail   atomix.Uint64 // Elements pushed; advanced by the producer
	closed atomix.Bool

	front    uint64 // head mod capacity
	rear     uint64 // tail mod capacity
	capacity uint64

	role   Role
	path   string
	file   *os.File
	cursor cursorChannel
	opts   Options
	log    *slog.Logger

	rec [RecordSize]byte
}

// Open opens one side of the queue backed by the file at path with default
// options. See [Builder] for configuration.
//
// A producer creates path and fails with ErrAlreadyExists if it exists.
// A consumer opens path read-only and fails with ErrNotFound if it does not.
func Open(path string, role Role, capacity int) (*Queue, error) {
	return New(path, capacity).Role(role).Open()
}

func open(opts Options) (*Queue, error) {
	if opts.capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opts.capacity)
	}

	var (
		f         *os.File
		own, peer string
		err       error
	)
	switch opts.role {
	case RoleProducer:
		f, err = os.OpenFile(opts.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, opts.path)
		}
		own, peer = RearPath(opts.path), FrontPath(opts.path)
	case RoleConsumer:
		f, err = os.Open(opts.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, opts.path)
		}
		own, peer = FrontPath(opts.path), RearPath(opts.path)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidRole, opts.role)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrIO, err)
	}

	logger := opts.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	q := &Queue{
		capacity: uint64(opts.capacity),
		role:     opts.role,
		path:     opts.path,
		file:     f,
		cursor:   newCursorChannel(opts.publish, own, peer, opts.durable),
		opts:     opts,
		log:      logger.With("path", opts.path, "role", opts.role.String()),
	}
	q.log.Debug("queue opened",
		"capacity", opts.capacity,
		"publish", opts.publish.String(),
		"parse", opts.parse.String(),
		"cursor", opts.cursor.String())
	return q, nil
}

// Push appends v to the queue (producer only).
//
// Returns ErrFull if every slot is occupied, ErrWrongRole on a consumer and
// ErrClosed after Close. A returned error wrapping ErrPublish means v was
// written but the rear cursor file could not be updated; v must not be
// pushed again.
func (q *Queue) Push(v uint32) error {
	if q.closed.LoadAcquire() {
		return ErrClosed
	}
	if q.role != RoleProducer {
		return ErrWrongRole
	}
	if err := q.refresh(); err != nil {
		return err
	}

	tail := q.tail.LoadRelaxed()
	if tail-q.head.LoadRelaxed() >= q.capacity {
		return ErrFull
	}

	encodeSlot(q.rec[:], v)
	if _, err := q.file.WriteAt(q.rec[:], slotOffset(q.rear)); err != nil {
		return fmt.Errorf("%w: write slot %d: %w", ErrIO, q.rear, err)
	}
	if q.opts.durable {
		if err := q.file.Sync(); err != nil {
			return fmt.Errorf("%w: sync slot %d: %w", ErrIO, q.rear, err)
		}
	}

	q.rear = advance(q.rear, q.capacity)
	q.tail.StoreRelease(tail + 1)
	return q.publish(tail+1, q.rear)
}

// Pop removes and returns the oldest element (consumer only).
//
// Returns (0, ErrEmpty) if no element is available, ErrWrongRole on a
// producer, ErrClosed after Close and ErrCorrupt if the slot record does
// not decode. On ErrEmpty and ErrCorrupt the queue state is unchanged.
func (q *Queue) Pop() (uint32, error) {
	if q.closed.LoadAcquire() {
		return 0, ErrClosed
	}
	if q.role != RoleConsumer {
		return 0, ErrWrongRole
	}
	if err := q.refresh(); err != nil {
		return 0, err
	}

	head := q.head.LoadRelaxed()
	if q.tail.LoadRelaxed() == head {
		return 0, ErrEmpty
	}

	n, err := q.file.ReadAt(q.rec[:], slotOffset(q.front))
	if n < RecordSize {
		if err == nil || errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: slot %d: short read of %d bytes", ErrCorrupt, q.front, n)
		}
		return 0, fmt.Errorf("%w: read slot %d: %w", ErrIO, q.front, err)
	}
	v, err := decodeSlot(q.rec[:])
	if err != nil {
		return 0, fmt.Errorf("slot %d: %w", q.front, err)
	}

	q.front = advance(q.front, q.capacity)
	q.head.StoreRelease(head + 1)
	return v, q.publish(head+1, q.front)
}

// refresh reads the peer's cursor file and updates the peer side of the
// local state. A missing or empty file leaves the cached state in place.
func (q *Queue) refresh() error {
	text, ok, err := q.cursor.observe()
	if err != nil || !ok {
		return err
	}
	v, err := parseCursor(text, q.opts.parse)
	if err != nil {
		return err
	}
	if q.opts.cursor == CursorWrapped {
		return q.observeIndex(v)
	}
	return q.observeSequence(v)
}

// observeSequence applies a peer sequence count. The producer accepts a
// consumer count in [head, tail]; the consumer accepts a producer count in
// [head, head+capacity].
func (q *Queue) observeSequence(v uint64) error {
	head, tail := q.head.LoadRelaxed(), q.tail.LoadRelaxed()
	if q.role == RoleProducer {
		if v < head || v > tail {
			return q.reject(v)
		}
		q.head.StoreRelease(v)
		q.front = v % q.capacity
		return nil
	}
	if v < head || v-head > q.capacity {
		return q.reject(v)
	}
	q.tail.StoreRelease(v)
	q.rear = v % q.capacity
	return nil
}

// observeIndex applies a peer ring index. Occupancy is recomputed only when
// the index moved, so a full ring with front == rear stays full.
func (q *Queue) observeIndex(v uint64) error {
	if v >= q.capacity {
		return q.reject(v)
	}
	if q.role == RoleProducer {
		if v == q.front {
			return nil
		}
		size := occupancy(v, q.rear, q.capacity)
		q.front = v
		q.head.StoreRelease(q.tail.LoadRelaxed() - size)
		return nil
	}
	if v == q.rear {
		return nil
	}
	size := occupancy(q.front, v, q.capacity)
	q.rear = v
	q.tail.StoreRelease(q.head.LoadRelaxed() + size)
	return nil
}

func (q *Queue) reject(v uint64) error {
	if q.opts.parse == ParseLenient {
		q.log.Warn("ignoring out-of-range peer cursor", "cursor", v)
		return nil
	}
	return fmt.Errorf("%w: peer cursor %d out of range", ErrCorrupt, v)
}

func (q *Queue) publish(seq, index uint64) error {
	v := seq
	if q.opts.cursor == CursorWrapped {
		v = index
	}
	if err := q.cursor.publish(v); err != nil {
		q.log.Warn("cursor publish failed", "cursor", v, "err", err)
		return err
	}
	return nil
}

// Close releases the queue.
//
// It closes the backing file, removes this side's cursor file and removes
// the backing file. Whichever side closes last finds the backing file gone;
// that is not an error. Later calls to Close, Push or Pop return ErrClosed.
func (q *Queue) Close() error {
	if q.closed.LoadAcquire() {
		return ErrClosed
	}
	q.closed.StoreRelease(true)

	var errs []error
	if err := q.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close: %w", ErrIO, err))
	}
	if err := q.cursor.remove(); err != nil {
		errs = append(errs, fmt.Errorf("%w: remove cursor: %w", ErrIO, err))
	}
	if err := removeIfExists(q.path); err != nil {
		errs = append(errs, fmt.Errorf("%w: remove backing file: %w", ErrIO, err))
	}
	err := errors.Join(errs...)
	if err != nil {
		q.log.Warn("queue closed with errors", "err", err)
		return err
	}
	q.log.Debug("queue closed", "pushed", q.tail.LoadRelaxed(), "popped", q.head.LoadRelaxed())
	return nil
}

// IsEmpty reports whether the cached occupancy is zero.
// It does not read the peer's cursor; a fresh view requires Push or Pop.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// IsFull reports whether the cached occupancy equals the capacity.
// It does not read the peer's cursor; a fresh view requires Push or Pop.
func (q *Queue) IsFull() bool {
	return q.Len() == int(q.capacity)
}

// Len returns the cached occupancy.
func (q *Queue) Len() int {
	// head first: both sides only ever raise head to a value <= tail.
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return int(min(tail-head, q.capacity))
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return int(q.capacity)
}

// Front returns the cached ring index of the oldest element.
func (q *Queue) Front() int {
	// Derived from rear and occupancy: with CursorWrapped the producer's
	// head is tail minus size and may sit below zero modulo 2^64.
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	return int((tail%q.capacity + q.capacity - (tail-head)%q.capacity) % q.capacity)
}

// Rear returns the cached ring index of the next slot to be written.
func (q *Queue) Rear() int {
	return int(q.tail.LoadAcquire() % q.capacity)
}

// Role returns the role the queue was opened with.
func (q *Queue) Role() Role {
	return q.role
}

// Path returns the backing file path.
func (q *Queue) Path() string {
	return q.path
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	return q.closed.LoadAcquire()
}
