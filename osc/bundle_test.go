package osc

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestBundleMarshalBinary(t *testing.T) {
	first := NewMessage("/tuio/2Dcur", "alive", int32(1))
	second := NewMessage("/tuio/2Dcur", "fseq", int32(7))
	bundle := NewBundle(first, second)

	data, err := bundle.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() unexpected error: %s", err)
	}

	if got, want := data[:8], []byte("#bundle\x00"); !bytes.Equal(got, want) {
		t.Errorf("bundle marker = %q, want = %q", got, want)
	}
	if got, want := data[8:16], []byte{0, 0, 0, 0, 0, 0, 0, 1}; !bytes.Equal(got, want) {
		t.Errorf("time tag = % x, want = % x", got, want)
	}

	// Each element is a 4-byte big-endian length followed by the encoded
	// message, in input order.
	rest := data[16:]
	for i, msg := range []*Message{first, second} {
		want, err := msg.MarshalBinary()
		if err != nil {
			t.Fatalf("message %d: %s", i, err)
		}
		if got := binary.BigEndian.Uint32(rest[:4]); got != uint32(len(want)) {
			t.Errorf("element %d: length prefix = %d, want = %d", i, got, len(want))
		}
		if got := rest[4 : 4+len(want)]; !bytes.Equal(got, want) {
			t.Errorf("element %d: body = %q, want = %q", i, got, want)
		}
		rest = rest[4+len(want):]
	}
	if len(rest) != 0 {
		t.Errorf("bundle has %d trailing bytes", len(rest))
	}
}

func TestBundleTimetagDiscarded(t *testing.T) {
	// Whatever time value the caller attaches, the wire carries the
	// immediate sentinel.
	bundle := NewBundle(NewMessage("/a"), NewMessage("/b"))
	bundle.Timetag = TimetagFromTime(time.Now())

	data, err := bundle.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() unexpected error: %s", err)
	}
	if got, want := data[8:16], []byte{0, 0, 0, 0, 0, 0, 0, 1}; !bytes.Equal(got, want) {
		t.Errorf("time tag = % x, want = % x", got, want)
	}
}

func TestBundleAppend(t *testing.T) {
	bundle := NewBundle()
	bundle.Append(NewMessage("/a"))
	bundle.Append(NewMessage("/b"))

	if got, want := len(bundle.Messages), 2; got != want {
		t.Errorf("len(Messages) = %d, want = %d", got, want)
	}
}

func TestTimetagFromTime(t *testing.T) {
	// Half a second past one second into the Unix epoch: the high word is
	// the 1900-based second count, the low word the binary fraction.
	tag := TimetagFromTime(time.Unix(1, 500000000))
	if got, want := tag, Timetag(uint64(secondsFrom1900To1970+1)<<32|1<<31); got != want {
		t.Errorf("TimetagFromTime() = %d, want = %d", got, want)
	}
}
