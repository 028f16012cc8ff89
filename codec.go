// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ffq

import "fmt"

const (
	// hexDigits is the number of base-16 digits in a uint32.
	hexDigits = 8

	// RecordSize is the width in bytes of one slot in the backing file:
	// eight uppercase hex digits followed by a line feed.
	RecordSize = hexDigits + 1
)

const upperHex = "0123456789ABCDEF"

// encodeSlot renders v into dst as a fixed-width record.
// dst must hold at least RecordSize bytes.
func encodeSlot(dst []byte, v uint32) {
	_ = dst[RecordSize-1]
	for i := hexDigits - 1; i >= 0; i-- {
		dst[i] = upperHex[v&0xF]
		v >>= 4
	}
	dst[hexDigits] = '\n'
}

// decodeSlot parses a fixed-width record. Lowercase digits are accepted.
// Any other deviation, including a short or torn record, is ErrCorrupt.
func decodeSlot(rec []byte) (uint32, error) {
	if len(rec) != RecordSize || rec[hexDigits] != '\n' {
		return 0, fmt.Errorf("%w: slot record %q", ErrCorrupt, rec)
	}
	var v uint32
	for _, c := range rec[:hexDigits] {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		default:
			return 0, fmt.Errorf("%w: slot record %q", ErrCorrupt, rec)
		}
		v = v<<4 | uint32(d)
	}
	return v, nil
}

// slotOffset returns the byte offset of slot i.
func slotOffset(i uint64) int64 {
	return int64(i) * RecordSize
}
