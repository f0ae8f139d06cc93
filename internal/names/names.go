// Package names implements the fixed-width, zero-padded text storage used by
// Exodus name arrays. Each name occupies a slot of a declared width; unused
// trailing bytes are zero. Encoding rejects names that do not fit, so a name
// written is always a name that reads back unchanged.
package names

import (
	"bytes"
	"fmt"
)

// Encode returns the name left-aligned in a zero-filled slot of the given
// width. Names longer than the width are rejected rather than truncated.
func Encode(name string, width int) ([]byte, error) {
	if len(name) > width {
		return nil, fmt.Errorf("name %q exceeds %d bytes", name, width)
	}
	slot := make([]byte, width)
	copy(slot, name)
	return slot, nil
}

// Decode strips trailing zero padding from a slot and returns the stored
// name.
func Decode(slot []byte) string {
	return string(bytes.TrimRight(slot, "\x00"))
}

// DecodeAll splits a flat buffer of consecutive fixed-width slots and
// decodes each one, preserving slot order.
func DecodeAll(buf []byte, width int) []string {
	if width <= 0 {
		return nil
	}
	out := make([]string, 0, len(buf)/width)
	for off := 0; off+width <= len(buf); off += width {
		out = append(out, Decode(buf[off:off+width]))
	}
	return out
}
