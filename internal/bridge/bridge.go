package bridge

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pyw110001/webtuio-controller/osc"
)

// Sender delivers one encoded OSC packet as a single datagram.
type Sender interface {
	Send(data []byte) error
}

// Bridge converts inbound WebSocket frames into OSC datagrams. One Bridge
// is shared by every connection; it holds no per-frame state, so concurrent
// HandleFrame calls are safe.
type Bridge struct {
	sender Sender
	log    *logrus.Entry
}

// New returns a Bridge forwarding to the given sender.
func New(sender Sender, log *logrus.Entry) *Bridge {
	return &Bridge{sender: sender, log: log}
}

// HandleFrame processes one inbound text frame end to end: normalize,
// encode, send. Every failure is logged and swallowed so the caller's read
// loop never stops because of a bad frame, and nothing is ever written back
// to the WebSocket peer.
func (b *Bridge) HandleFrame(data []byte) {
	pkts, err := Normalize(data)
	if err != nil {
		b.log.WithError(err).Warn("dropping frame")
		return
	}
	if len(pkts) == 0 {
		b.log.Warn("dropping frame: no packets")
		return
	}
	if b.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		b.logTUIO(pkts)
	}

	payload, err := b.encode(pkts)
	if err != nil {
		b.log.WithError(err).Warn("dropping frame: encoding failed")
		return
	}

	// Send failures are not retried and do not end the connection.
	if err := b.sender.Send(payload); err != nil {
		b.log.WithError(err).Error("UDP send failed")
		return
	}
	b.log.WithField("bytes", len(payload)).Debug("forwarded frame")
}

// encode picks the wire form: a single packet goes out as a bare message,
// anything more as a bundle.
func (b *Bridge) encode(pkts []Packet) ([]byte, error) {
	msgs := make([]*osc.Message, len(pkts))
	for i, p := range pkts {
		msgs[i] = b.message(p)
	}

	if len(msgs) == 1 {
		return msgs[0].MarshalBinary()
	}

	bundle := osc.NewBundle(msgs...)
	// Informational only; the encoder always writes the immediate sentinel.
	bundle.Timetag = osc.TimetagFromTime(time.Now())
	return bundle.MarshalBinary()
}

func (b *Bridge) message(p Packet) *osc.Message {
	msg := osc.NewMessage(p.Address)
	for _, raw := range p.Args {
		arg, fallback := osc.Coerce(raw)
		if fallback {
			b.log.WithFields(logrus.Fields{
				"address": p.Address,
				"arg":     arg,
			}).Warn("argument not classifiable, sent as string")
		}
		msg.Append(arg)
	}
	return msg
}

// logTUIO traces decoded cursor-profile traffic: set rows carry session id,
// position, velocity and acceleration.
func (b *Bridge) logTUIO(pkts []Packet) {
	for _, p := range pkts {
		if p.Address != "/tuio/2Dcur" || len(p.Args) == 0 {
			continue
		}
		kind, _ := p.Args[0].(string)
		switch {
		case kind == "set" && len(p.Args) >= 7:
			b.log.Debugf("tuio set: session=%v x=%v y=%v vx=%v vy=%v accel=%v",
				p.Args[1], p.Args[2], p.Args[3], p.Args[4], p.Args[5], p.Args[6])
		case kind == "alive":
			b.log.Debugf("tuio alive: %v", p.Args[1:])
		case kind == "fseq" && len(p.Args) >= 2:
			b.log.Debugf("tuio fseq: %v", p.Args[1])
		case kind == "source" && len(p.Args) >= 2:
			b.log.Debugf("tuio source: %v", p.Args[1])
		}
	}
}
