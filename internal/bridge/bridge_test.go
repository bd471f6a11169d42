package bridge

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyw110001/webtuio-controller/osc"
)

type captureSender struct {
	sent [][]byte
	err  error
}

func (c *captureSender) Send(data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, data)
	return nil
}

func quietEntry() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

func TestHandleFrameSingleMessage(t *testing.T) {
	sender := &captureSender{}
	b := New(sender, quietEntry())

	b.HandleFrame([]byte(`{"address":"/tuio/2Dcur","args":["alive",1]}`))

	require.Len(t, sender.sent, 1)
	want := []byte("/tuio/2Dcur\x00,si\x00alive\x00\x00\x00\x00\x00\x00\x01")
	assert.Equal(t, want, sender.sent[0])
}

func TestHandleFrameBundle(t *testing.T) {
	sender := &captureSender{}
	b := New(sender, quietEntry())

	b.HandleFrame([]byte(
		`{"bundle":true,"packets":[{"address":"/tuio/2Dcur","args":["alive",1]},{"address":"/tuio/2Dcur","args":["fseq",7]}]}`))

	require.Len(t, sender.sent, 1)
	data := sender.sent[0]

	assert.Equal(t, []byte("#bundle\x00"), data[:8])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, data[8:16],
		"bundles always carry the immediate time tag")

	first, err := osc.NewMessage("/tuio/2Dcur", "alive", int32(1)).MarshalBinary()
	require.NoError(t, err)
	second, err := osc.NewMessage("/tuio/2Dcur", "fseq", int32(7)).MarshalBinary()
	require.NoError(t, err)

	rest := data[16:]
	for i, want := range [][]byte{first, second} {
		require.GreaterOrEqual(t, len(rest), 4+len(want), "element %d truncated", i)
		assert.Equal(t, uint32(len(want)), binary.BigEndian.Uint32(rest[:4]))
		assert.Equal(t, want, rest[4:4+len(want)], "element %d out of order", i)
		rest = rest[4+len(want):]
	}
	assert.Empty(t, rest)
}

func TestHandleFrameBooleanArgs(t *testing.T) {
	sender := &captureSender{}
	b := New(sender, quietEntry())

	b.HandleFrame([]byte(`{"address":"/b","args":[true,false]}`))

	require.Len(t, sender.sent, 1)
	want := []byte("/b\x00\x00,ii\x00\x00\x00\x00\x01\x00\x00\x00\x00")
	assert.Equal(t, want, sender.sent[0])
}

func TestHandleFrameCoercionFallback(t *testing.T) {
	// An unclassifiable argument is downgraded to its stringified form, not
	// dropped.
	sender := &captureSender{}
	b := New(sender, quietEntry())

	b.HandleFrame([]byte(`{"address":"/n","args":[null]}`))

	require.Len(t, sender.sent, 1)
	want := []byte("/n\x00\x00,s\x00\x00null\x00\x00\x00\x00")
	assert.Equal(t, want, sender.sent[0])
}

func TestHandleFrameDrops(t *testing.T) {
	for name, frame := range map[string]string{
		"invalid_json":  `{"address":`,
		"unknown_shape": `{"foo":1}`,
		"empty_packets": `{"timeTag":1,"packets":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			sender := &captureSender{}
			b := New(sender, quietEntry())
			b.HandleFrame([]byte(frame))
			assert.Empty(t, sender.sent)
		})
	}
}

func TestHandleFrameSwallowsSendError(t *testing.T) {
	sender := &captureSender{err: errors.New("destination unreachable")}
	b := New(sender, quietEntry())

	// Must not panic and must not affect later frames.
	b.HandleFrame([]byte(`{"address":"/a","args":[1]}`))

	sender.err = nil
	b.HandleFrame([]byte(`{"address":"/a","args":[1]}`))
	assert.Len(t, sender.sent, 1)
}

func TestHandleFramePerFrameDatagram(t *testing.T) {
	// One processed frame produces exactly one datagram, whatever the
	// packet count.
	sender := &captureSender{}
	b := New(sender, quietEntry())

	b.HandleFrame([]byte(`{"address":"/a","args":[1]}`))
	b.HandleFrame([]byte(`[{"address":"/a"},{"address":"/b"},{"address":"/c"}]`))

	assert.Len(t, sender.sent, 2)
}
