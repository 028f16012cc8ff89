// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// spinAttempts is the number of retries paced by CPU pause before
// falling back to iox.Backoff.
const spinAttempts = 32

// Send pushes v, retrying while the queue is full until ctx is done.
//
// Send is a caller-side polling loop around Push. It returns nil once v is
// pushed, ctx.Err() if ctx ends first, or the first error from Push that
// is not ErrFull.
func Send(ctx context.Context, p Producer, v uint32) error {
	sw := spin.Wait{}
	backoff := iox.Backoff{}
	for i := 0; ; i++ {
		err := p.Push(v)
		if !IsWouldBlock(err) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if i < spinAttempts {
			sw.Once()
		} else {
			backoff.Wait()
		}
	}
}

// Receive pops the oldest element, retrying while the queue is empty until
// ctx is done.
//
// Receive is a caller-side polling loop around Pop. It returns ctx.Err()
// if ctx ends first, or the first error from Pop that is not ErrEmpty.
func Receive(ctx context.Context, c Consumer) (uint32, error) {
	sw := spin.Wait{}
	backoff := iox.Backoff{}
	for i := 0; ; i++ {
		v, err := c.Pop()
		if !IsWouldBlock(err) {
			return v, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if i < spinAttempts {
			sw.Once()
		} else {
			backoff.Wait()
		}
	}
}
