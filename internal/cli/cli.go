// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cli holds the queue flags shared by the ffq commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"

	"code.hybscloud.com/ffq"
	"code.hybscloud.com/iox"
)

// Flags are the queue settings both sides of a queue must agree on, plus
// per-process logging.
type Flags struct {
	Path     string
	Capacity int
	Atomic   bool
	Lenient  bool
	Wrapped  bool
	Durable  bool
	Verbose  bool
}

// Register defines the flags on fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Path, "path", "fifo.txt", "backing file of the queue")
	fs.IntVar(&f.Capacity, "capacity", 5, "number of slots; must match the peer")
	fs.BoolVar(&f.Atomic, "atomic", false, "publish cursor files by atomic rename")
	fs.BoolVar(&f.Lenient, "lenient", false, "read unparsable peer cursors as 0 instead of failing")
	fs.BoolVar(&f.Wrapped, "wrapped", false, "use ring-index cursor files; must match the peer")
	fs.BoolVar(&f.Durable, "durable", false, "fsync every slot and cursor write")
	fs.BoolVar(&f.Verbose, "v", false, "log queue lifecycle at debug level")
}

// Logger returns a text logger writing to w.
func (f *Flags) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Builder returns a queue builder configured from the flags.
func (f *Flags) Builder(role ffq.Role, log *slog.Logger) *ffq.Builder {
	b := ffq.New(f.Path, f.Capacity).Role(role).Logger(log)
	if f.Atomic {
		b.Publish(ffq.PublishAtomic)
	}
	if f.Lenient {
		b.Parse(ffq.ParseLenient)
	}
	if f.Wrapped {
		b.Cursor(ffq.CursorWrapped)
	}
	if f.Durable {
		b.Durable()
	}
	return b
}

// OpenWait opens the queue, retrying while the backing file does not exist
// yet, until ctx is done. Only a consumer can observe ErrNotFound.
func OpenWait(ctx context.Context, b *ffq.Builder) (*ffq.Queue, error) {
	backoff := iox.Backoff{}
	for {
		q, err := b.Open()
		if !errors.Is(err, ffq.ErrNotFound) {
			return q, err
		}
		if ctx.Err() != nil {
			return nil, errors.Join(err, ctx.Err())
		}
		backoff.Wait()
	}
}

// Close closes q and logs a failure. It is safe to call after q was
// already closed.
func Close(q *ffq.Queue, log *slog.Logger) {
	if err := q.Close(); err != nil && !errors.Is(err, ffq.ErrClosed) {
		log.Warn("close queue", "err", err)
	}
}
