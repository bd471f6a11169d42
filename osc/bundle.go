package osc

import (
	"bytes"
	"encoding/binary"
	"time"
)

const bundleTag = "#bundle"

// Timetag is a 64-bit fixed point OSC time tag in NTP format: seconds since
// 1900 in the high word, fractional seconds in the low word.
type Timetag uint64

// Immediate is the reserved time tag value meaning "execute as soon as
// received".
const Immediate Timetag = 1

const secondsFrom1900To1970 = 2208988800

// TimetagFromTime converts a wall-clock time to an NTP time tag.
func TimetagFromTime(t time.Time) Timetag {
	secs := uint64(t.Unix()) + secondsFrom1900To1970
	frac := uint64(t.Nanosecond()) << 32 / 1e9
	return Timetag(secs<<32 | frac)
}

// Bundle represents an OSC bundle: the OSC-string "#bundle" followed by a
// time tag, followed by zero or more length-prefixed OSC messages.
//
// The Timetag field is informational only. Scheduled delivery is out of
// scope for this bridge, so the wire always carries the Immediate sentinel,
// whatever value a caller attached.
type Bundle struct {
	Timetag  Timetag
	Messages []*Message
}

// Verify that interfaces are implemented properly.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle holding the given messages.
func NewBundle(msgs ...*Message) *Bundle {
	return &Bundle{Timetag: Immediate, Messages: msgs}
}

// Append appends a Message to the bundle.
func (b *Bundle) Append(msg *Message) {
	b.Messages = append(b.Messages, msg)
}

// MarshalBinary serializes the OSC bundle to a byte array with the following
// format:
// 1. Bundle string: '#bundle'
// 2. The Immediate time tag
// 3. Length of first OSC message
// 4. First OSC message
// 5. Length of n OSC message
// 6. n OSC message
// Messages keep their input order; they are never reordered or merged.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	// Add the '#bundle' string
	data := new(bytes.Buffer)
	if _, err := writePaddedString(bundleTag, data); err != nil {
		return nil, err
	}

	// Add the time tag. b.Timetag is discarded here: deferred execution is
	// not supported, every bundle executes immediately.
	if err := binary.Write(data, binary.BigEndian, uint64(Immediate)); err != nil {
		return nil, err
	}

	// Process all OSC Messages
	for _, m := range b.Messages {
		buf, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}

		// Append the length of the OSC message
		if err = binary.Write(data, binary.BigEndian, uint32(len(buf))); err != nil {
			return nil, err
		}

		// Append the OSC message
		if _, err = data.Write(buf); err != nil {
			return nil, err
		}
	}

	return data.Bytes(), nil
}
