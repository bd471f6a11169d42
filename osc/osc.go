// Package osc encodes OpenSoundControl messages and bundles for the
// WebTUIO bridge. The package is implemented in pure Go and covers the
// argument types the bridge emits: int32, float32 and string.
package osc

import (
	"bytes"
	"encoding"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// writePaddedString writes a string with padding bytes to the buffer.
// Returns the number of written bytes and an error if any.
func writePaddedString(str string, buf *bytes.Buffer) (int, error) {
	n, err := buf.WriteString(str)
	if err != nil {
		return 0, err
	}

	// OSC strings are NUL terminated and padded to the next 4 byte
	// boundary, so at least one padding byte is always written.
	numPadBytes := padBytesNeeded(len(str))
	if numPadBytes > 0 {
		padBytes := make([]byte, numPadBytes)
		n, err := buf.Write(padBytes)
		if err != nil {
			return 0, err
		}
		numPadBytes = n
	}

	return n + numPadBytes, nil
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return 4*(elementLen/4+1) - elementLen
}
