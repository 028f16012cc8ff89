// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import "strconv"

// Role is the side of the queue a process plays. Exactly one process opens
// a given path as RoleProducer and one as RoleConsumer.
type Role uint8

const (
	// RoleProducer creates the backing file and pushes elements.
	RoleProducer Role = iota + 1

	// RoleConsumer opens an existing backing file and pops elements.
	RoleConsumer
)

func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleConsumer:
		return "consumer"
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// Producer is the interface for pushing elements.
//
// Push is non-blocking: it returns [ErrFull] immediately when every slot is
// occupied. Waiting is the caller's concern; see [Send].
type Producer interface {
	// Push appends v to the queue.
	// Returns nil on success, ErrFull if the queue is full.
	Push(v uint32) error
}

// Consumer is the interface for popping elements.
//
// Pop is non-blocking: it returns [ErrEmpty] immediately when no element is
// available. Waiting is the caller's concern; see [Receive].
type Consumer interface {
	// Pop removes and returns the oldest element.
	// Returns (0, ErrEmpty) if the queue is empty.
	Pop() (uint32, error)
}

// Snapshot reports cached occupancy without touching the file system.
//
// Values reflect the last push or pop on this handle and may be stale with
// respect to the peer process.
type Snapshot interface {
	IsEmpty() bool
	IsFull() bool
	Len() int
	Cap() int
}
