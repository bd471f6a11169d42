package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Packet is one address/argument pair extracted from an inbound frame,
// prior to OSC encoding. Args hold raw decoded JSON values with numbers
// preserved as json.Number.
type Packet struct {
	Address string
	Args    []any
}

var (
	// ErrParse reports a frame that is not valid JSON.
	ErrParse = errors.New("invalid JSON frame")
	// ErrShape reports a JSON document matching none of the supported
	// envelope shapes.
	ErrShape = errors.New("unrecognized message shape")
)

// Normalize turns one inbound JSON frame into an ordered packet sequence.
//
// Four envelope shapes are recognized, tried in a fixed order with the
// first structural match winning:
//
//	{"address": ..., "args": [...]}          single message
//	{"bundle": true, "packets": ...}         explicit bundle
//	{"timeTag": ..., "packets": [...]}       timed bundle (time value is
//	                                         read but never forwarded)
//	{"packets": [...]}                       bare bundle
//	[{...}, {...}]                           array of messages
//
// New shapes extend this list explicitly; shapes are never merged.
func Normalize(data []byte) ([]Packet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch t := doc.(type) {
	case map[string]any:
		if _, ok := t["address"]; ok {
			return []Packet{packetFrom(t)}, nil
		}
		if b, ok := t["bundle"].(bool); ok && b {
			if raw, ok := t["packets"]; ok {
				return packetsFrom(raw)
			}
		}
		if _, ok := t["timeTag"]; ok {
			if raw, ok := t["packets"]; ok {
				return packetsFrom(raw)
			}
		}
		if raw, ok := t["packets"]; ok {
			return packetsFrom(raw)
		}
	case []any:
		return packetsFrom(t)
	}

	return nil, ErrShape
}

// packetsFrom extracts the packet list from a bundle envelope. A single
// packet object is accepted in place of a list; anything that is not a
// packet-shaped object fails the whole frame.
func packetsFrom(raw any) ([]Packet, error) {
	list, ok := raw.([]any)
	if !ok {
		list = []any{raw}
	}

	out := make([]Packet, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: packet element is %T, not an object", ErrShape, el)
		}
		out = append(out, packetFrom(obj))
	}
	return out, nil
}

// packetFrom builds a Packet from a message object. A missing address
// encodes as the empty string and a missing args list as no arguments; a
// scalar args value is treated as a one-element list. Malformed packets are
// downgraded, never fatal.
func packetFrom(obj map[string]any) Packet {
	p := Packet{}
	if s, ok := obj["address"].(string); ok {
		p.Address = s
	}
	switch args := obj["args"].(type) {
	case nil:
	case []any:
		p.Args = args
	default:
		p.Args = []any{args}
	}
	return p
}
