package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments. Arguments must be one of
// int32, float32 or string; Coerce produces exactly this set from decoded
// JSON values.
type Message struct {
	Address   string
	Arguments []any
}

// Verify that interfaces are implemented properly.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The `addr` parameter is the OSC address.
func NewMessage(addr string, args ...any) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
func (msg *Message) Append(args ...any) {
	msg.Arguments = append(msg.Arguments, args...)
}

// CountArguments returns the number of arguments.
func (msg *Message) CountArguments() int {
	return len(msg.Arguments)
}

// TypeTags returns the type tag string.
func (msg *Message) TypeTags() (string, error) {
	if msg == nil {
		return "", fmt.Errorf("message is nil")
	}

	tags := ","
	for _, arg := range msg.Arguments {
		switch arg.(type) {
		case int32:
			tags += "i"
		case float32:
			tags += "f"
		case string:
			tags += "s"
		default:
			return "", fmt.Errorf("unsupported type: %T", arg)
		}
	}

	return tags, nil
}

// String implements the fmt.Stringer interface.
func (msg *Message) String() string {
	if msg == nil {
		return ""
	}

	tags, err := msg.TypeTags()
	if err != nil {
		return ""
	}

	s := msg.Address + " " + tags
	for _, arg := range msg.Arguments {
		s += fmt.Sprintf(" %v", arg)
	}
	return s
}

// MarshalBinary serializes the OSC message to a byte buffer. The byte buffer
// has the following format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
// The total length is always a multiple of 4 bytes. No address or argument
// count limit is enforced.
func (msg *Message) MarshalBinary() ([]byte, error) {
	// We can start with the OSC address and add it to the buffer
	data := new(bytes.Buffer)
	if _, err := writePaddedString(msg.Address, data); err != nil {
		return nil, err
	}

	// Type tag string starts with ","
	typetags := []byte{','}

	// Process the type tags and collect all arguments
	payload := new(bytes.Buffer)
	for _, arg := range msg.Arguments {
		switch t := arg.(type) {
		default:
			return nil, fmt.Errorf("OSC - unsupported type: %T", t)

		case int32:
			typetags = append(typetags, 'i')
			if err := binary.Write(payload, binary.BigEndian, t); err != nil {
				return nil, err
			}

		case float32:
			typetags = append(typetags, 'f')
			if err := binary.Write(payload, binary.BigEndian, t); err != nil {
				return nil, err
			}

		case string:
			typetags = append(typetags, 's')
			if _, err := writePaddedString(t, payload); err != nil {
				return nil, err
			}
		}
	}

	// Write the type tag string to the data buffer
	if _, err := writePaddedString(string(typetags), data); err != nil {
		return nil, err
	}

	// Write the payload (OSC arguments) to the data buffer
	if _, err := data.Write(payload.Bytes()); err != nil {
		return nil, err
	}

	return data.Bytes(), nil
}
