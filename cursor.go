// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Cursor file suffixes. The consumer owns the front file, the producer the
// rear file. Both live next to the backing file.
const (
	frontSuffix = ".front"
	rearSuffix  = ".rear"
	tmpSuffix   = ".tmp"
)

// FrontPath returns the path of the cursor file the consumer publishes to
// for a queue backed by path.
func FrontPath(path string) string { return path + frontSuffix }

// RearPath returns the path of the cursor file the producer publishes to
// for a queue backed by path.
func RearPath(path string) string { return path + rearSuffix }

// PublishMode selects how a cursor file is rewritten.
type PublishMode uint8

const (
	// PublishInPlace truncates and rewrites the cursor file directly.
	// A concurrent reader may observe an empty or partially written value.
	PublishInPlace PublishMode = iota

	// PublishAtomic writes a temporary file and renames it over the cursor
	// file. Readers observe either the previous or the new value.
	PublishAtomic
)

func (m PublishMode) String() string {
	switch m {
	case PublishInPlace:
		return "in-place"
	case PublishAtomic:
		return "atomic"
	}
	return "PublishMode(" + strconv.Itoa(int(m)) + ")"
}

// ParsePolicy selects how an unreadable peer cursor is treated.
type ParsePolicy uint8

const (
	// ParseStrict reports an unparsable or out-of-range cursor as ErrCorrupt.
	ParseStrict ParsePolicy = iota

	// ParseLenient reads the leading decimal digits of the cursor, or 0 if
	// there are none, and ignores values that fall outside the valid range.
	ParseLenient
)

func (p ParsePolicy) String() string {
	switch p {
	case ParseStrict:
		return "strict"
	case ParseLenient:
		return "lenient"
	}
	return "ParsePolicy(" + strconv.Itoa(int(p)) + ")"
}

// CursorEncoding selects what a cursor file holds.
type CursorEncoding uint8

const (
	// CursorSequence publishes the number of elements pushed (producer) or
	// popped (consumer) since open. Full and empty are always distinguishable.
	CursorSequence CursorEncoding = iota

	// CursorWrapped publishes the ring index in [0, capacity). A peer that
	// advances a whole lap between two observations is indistinguishable
	// from one that did not move.
	CursorWrapped
)

func (e CursorEncoding) String() string {
	switch e {
	case CursorSequence:
		return "sequence"
	case CursorWrapped:
		return "wrapped"
	}
	return "CursorEncoding(" + strconv.Itoa(int(e)) + ")"
}

// cursorChannel publishes the owner's cursor and observes the peer's.
type cursorChannel interface {
	// publish overwrites the owner's cursor file with v.
	publish(v uint64) error
	// observe returns the peer's raw cursor text. ok is false when the
	// peer has not published yet or the file is empty.
	observe() (text []byte, ok bool, err error)
	// remove deletes the owner's cursor file. A missing file is not an error.
	remove() error
}

func newCursorChannel(mode PublishMode, own, peer string, durable bool) cursorChannel {
	files := cursorFiles{own: own, peer: peer, durable: durable}
	if mode == PublishAtomic {
		return &atomicChannel{files}
	}
	return &inPlaceChannel{files}
}

type cursorFiles struct {
	own     string
	peer    string
	durable bool
}

func (c *cursorFiles) observe() ([]byte, bool, error) {
	b, err := os.ReadFile(c.peer)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read cursor: %w", ErrIO, err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, false, nil
	}
	return b, true, nil
}

func (c *cursorFiles) remove() error {
	return removeIfExists(c.own)
}

// write creates or truncates name and writes v as decimal text.
func (c *cursorFiles) write(name string, v uint64) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	var buf [20]byte
	_, err = f.Write(strconv.AppendUint(buf[:0], v, 10))
	if err == nil && c.durable {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

type inPlaceChannel struct {
	cursorFiles
}

func (c *inPlaceChannel) publish(v uint64) error {
	if err := c.write(c.own, v); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

type atomicChannel struct {
	cursorFiles
}

func (c *atomicChannel) publish(v uint64) error {
	tmp := c.own + tmpSuffix
	if err := c.write(tmp, v); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	if err := os.Rename(tmp, c.own); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename: %w", ErrPublish, err)
	}
	if c.durable {
		if err := syncDir(filepath.Dir(c.own)); err != nil {
			return fmt.Errorf("%w: sync dir: %w", ErrPublish, err)
		}
	}
	return nil
}

// syncDir fsyncs the directory at path so a rename into it is durable.
func syncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return err
	}
	err = d.Sync()
	if cerr := d.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *atomicChannel) remove() error {
	return errors.Join(removeIfExists(c.own+tmpSuffix), removeIfExists(c.own))
}

// parseCursor decodes a peer cursor record according to policy.
func parseCursor(text []byte, policy ParsePolicy) (uint64, error) {
	if policy == ParseLenient {
		return leadingUint(text), nil
	}
	v, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cursor %q", ErrCorrupt, text)
	}
	return v, nil
}

// leadingUint parses the decimal digits at the start of text and stops at
// the first non-digit. It returns 0 if text does not start with a digit.
func leadingUint(text []byte) uint64 {
	var v uint64
	for _, c := range text {
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + uint64(c-'0')
	}
	return v
}

func removeIfExists(name string) error {
	err := os.Remove(name)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
