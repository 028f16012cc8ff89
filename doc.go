// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ffq provides a bounded FIFO queue of uint32 values shared by two
// processes through ordinary files.
//
// One process opens the queue as producer, another as consumer. There is no
// shared memory, lock or semaphore: the elements live in a backing file and
// each side publishes its cursor in a small side file that the other side
// polls. It is a best-effort substitute for proper IPC, useful where only a
// file system is shared.
//
// # Quick Start
//
// Producer process:
//
//	q, err := ffq.Open("/tmp/fifo", ffq.RoleProducer, 1024)
//	if err != nil {
//	    return err
//	}
//	defer q.Close()
//
//	if err := q.Push(42); ffq.IsWouldBlock(err) {
//	    // Queue is full - consumer is behind
//	}
//
// Consumer process:
//
//	q, err := ffq.Open("/tmp/fifo", ffq.RoleConsumer, 1024)
//	if err != nil {
//	    return err // ErrNotFound until the producer has opened
//	}
//	defer q.Close()
//
//	v, err := q.Pop()
//	if ffq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// Both sides must be opened with the same path, capacity and cursor
// encoding. A mismatch is not detectable.
//
// # File Layout
//
// The backing file holds capacity fixed-width records. Slot i lives at
// byte offset i*[RecordSize] and holds the element as eight uppercase hex
// digits and a line feed:
//
//	0000000A\n00000014\n0000001E\n
//
// The producer writes slots in place, so the file never grows beyond
// capacity*RecordSize. The consumer only reads it.
//
// Cursor files sit next to the backing file, named by [FrontPath] and
// [RearPath]. Each holds one decimal integer, written only by its owner:
//
//	/tmp/fifo        backing file, created by the producer
//	/tmp/fifo.rear   producer's cursor
//	/tmp/fifo.front  consumer's cursor
//
// # Polling
//
// Push and Pop never block. A full queue returns [ErrFull], an empty queue
// [ErrEmpty]; both wrap [ErrWouldBlock]. Retry policy belongs to the caller:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Pop()
//	    if ffq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    backoff.Reset()
//	    process(v)
//	}
//
// [Send] and [Receive] wrap that loop with context cancellation.
//
// IsEmpty, IsFull and Len report the occupancy cached by the last Push or
// Pop. They do not read the peer's cursor and may be stale.
//
// # Cursor Files
//
// With the default [PublishInPlace] a cursor file is truncated and
// rewritten on every operation. A peer reading at the same moment may see
// an empty or partial number. An empty file is treated as "no news"; a
// partial number is caught by range checks when it moves a cursor
// backwards or too far, but not always. [PublishAtomic] writes a temporary
// file and renames it over the cursor file instead, which removes torn
// reads at the cost of an extra rename per operation.
//
// The default [CursorSequence] encoding publishes running counts of pushed
// and popped elements. [CursorWrapped] publishes ring indices in
// [0, capacity) instead; with it a peer that moves a whole lap between two
// polls goes unnoticed, and the queue reads as empty (consumer) or full
// (producer) until the peer moves again.
//
// The default [ParseStrict] reports an unreadable or out-of-range peer
// cursor as [ErrCorrupt] and leaves the queue unchanged. [ParseLenient]
// reads garbage as 0 and ignores out-of-range values, which silently
// resets occupancy.
//
// # Shutdown
//
// Close removes this side's cursor file and the backing file. Cursor files
// left behind by a killed process confuse the next run on the same path,
// so tie Close to process termination:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	q, err := ffq.Open(path, ffq.RoleConsumer, capacity)
//	if err != nil {
//	    return err
//	}
//	defer q.Close()
//
//	for {
//	    v, err := ffq.Receive(ctx, q)
//	    if err != nil {
//	        return err // ctx.Err() on SIGINT/SIGTERM; Close still runs
//	    }
//	    process(v)
//	}
//
// # Errors
//
// Open returns [ErrInvalidCapacity], [ErrInvalidRole], [ErrAlreadyExists]
// (producer on an existing path), [ErrNotFound] (consumer on a missing
// path) or [ErrIO]. Push and Pop return [ErrFull], [ErrEmpty],
// [ErrWrongRole], [ErrClosed], [ErrCorrupt] or [ErrIO]. An error wrapping
// [ErrPublish] means the operation completed but the cursor file was not
// updated; the element must not be pushed again, and a popped value
// returned alongside it is valid.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for the counters read by snapshot
// methods, and [code.hybscloud.com/spin] for CPU pause in [Send] and
// [Receive].
package ffq
