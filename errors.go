// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// It is the base of [ErrFull] and [ErrEmpty]. Both are control flow
// signals, not failures: the caller should retry later (with backoff or
// yield) rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrFull is returned by Push when every slot is occupied.
	// It wraps [ErrWouldBlock].
	ErrFull = fmt.Errorf("ffq: queue full: %w", ErrWouldBlock)

	// ErrEmpty is returned by Pop when no element is available.
	// It wraps [ErrWouldBlock] and stands in for a "no value" result, so
	// every uint32 remains a legitimate element.
	ErrEmpty = fmt.Errorf("ffq: queue empty: %w", ErrWouldBlock)
)

var (
	// ErrAlreadyExists is returned when a producer opens a path that
	// already exists. The existing file is left untouched.
	ErrAlreadyExists = errors.New("ffq: backing file already exists")

	// ErrNotFound is returned when a consumer opens a path that does not
	// exist. A consumer never creates the backing file.
	ErrNotFound = errors.New("ffq: backing file not found")

	// ErrIO wraps any other file system failure.
	ErrIO = errors.New("ffq: i/o failure")

	// ErrWrongRole is returned by Push on a consumer and Pop on a producer.
	ErrWrongRole = errors.New("ffq: operation not permitted for role")

	// ErrClosed is returned by any operation on a closed queue.
	ErrClosed = errors.New("ffq: queue closed")

	// ErrCorrupt reports a slot record or peer cursor that failed to
	// decode or lies outside the valid range.
	ErrCorrupt = errors.New("ffq: corrupt record")

	// ErrPublish reports that an element was enqueued or dequeued but the
	// cursor file could not be updated. The operation itself completed and
	// must not be retried.
	ErrPublish = errors.New("ffq: cursor publish failed")

	// ErrInvalidCapacity is returned when capacity is not positive.
	ErrInvalidCapacity = errors.New("ffq: capacity must be > 0")

	// ErrInvalidRole is returned for a role other than RoleProducer or
	// RoleConsumer.
	ErrInvalidRole = errors.New("ffq: invalid role")
)

// IsWouldBlock reports whether err indicates the operation would block,
// i.e. the queue was full on Push or empty on Pop.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
