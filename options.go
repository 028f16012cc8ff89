// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import "log/slog"

// Options configures queue creation.
type Options struct {
	path     string
	role     Role
	capacity int

	// Cursor channel
	publish PublishMode
	parse   ParsePolicy
	cursor  CursorEncoding

	durable bool // fsync slot writes and atomic publishes
	logger  *slog.Logger
}

// Builder opens queues with fluent configuration.
//
// Example:
//
//	// Producer side, crash-tolerant cursor files
//	q, err := ffq.New("/tmp/events.fifo", 1024).Producer().Publish(ffq.PublishAtomic).Open()
//
//	// Consumer side of the same queue
//	q, err := ffq.New("/tmp/events.fifo", 1024).Consumer().Publish(ffq.PublishAtomic).Open()
//
// Both processes must agree on path, capacity and cursor encoding. A
// mismatch cannot be detected.
type Builder struct {
	opts Options
}

// New creates a queue builder for the backing file at path.
//
// Capacity is the number of slots and is used as given (no rounding).
// A capacity <= 0 is reported by Open as ErrInvalidCapacity.
func New(path string, capacity int) *Builder {
	return &Builder{opts: Options{path: path, capacity: capacity}}
}

// Producer declares that the queue is opened for pushing.
// Open creates the backing file and fails if it already exists.
func (b *Builder) Producer() *Builder {
	b.opts.role = RoleProducer
	return b
}

// Consumer declares that the queue is opened for popping.
// Open requires the backing file to exist.
func (b *Builder) Consumer() *Builder {
	b.opts.role = RoleConsumer
	return b
}

// Role sets the role explicitly.
func (b *Builder) Role(r Role) *Builder {
	b.opts.role = r
	return b
}

// Publish selects how this side rewrites its cursor file.
// The two sides may use different modes.
func (b *Builder) Publish(m PublishMode) *Builder {
	b.opts.publish = m
	return b
}

// Parse selects how an unreadable peer cursor is handled.
//
// ParseStrict (default) surfaces ErrCorrupt. ParseLenient reads the
// leading digits and treats a cursor without any as 0.
func (b *Builder) Parse(p ParsePolicy) *Builder {
	b.opts.parse = p
	return b
}

// Cursor selects the cursor file encoding. Both sides must match.
func (b *Builder) Cursor(e CursorEncoding) *Builder {
	b.opts.cursor = e
	return b
}

// Durable fsyncs every slot write, and every cursor write, before the
// operation returns. With PublishAtomic the directory holding the cursor
// file is fsynced after the rename as well.
//
// Trade-off: survives power loss of the written record at the cost of two
// or three fsync calls per operation. Without it, writes are still visible
// to the peer process immediately.
func (b *Builder) Durable() *Builder {
	b.opts.durable = true
	return b
}

// Logger sets the logger for queue lifecycle events and cursor anomalies.
// The default discards all records.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.opts.logger = l
	return b
}

// Open validates the configuration and opens the queue.
func (b *Builder) Open() (*Queue, error) {
	return open(b.opts)
}
