// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

// occupancy returns the number of occupied slots between front and rear
// on a ring of the given capacity. front == rear reads as empty; callers
// that can be full must track that case separately.
func occupancy(front, rear, capacity uint64) uint64 {
	if rear < front {
		return capacity + rear - front
	}
	return rear - front
}

// advance returns the ring index following i.
func advance(i, capacity uint64) uint64 {
	return (i + 1) % capacity
}
