package bridge

import "net"

// UDPSender is the single write-only socket shared by every connection.
// Each datagram write is an independent operation at the transport layer,
// so Send needs no locking.
type UDPSender struct {
	conn *net.UDPConn
}

var _ Sender = (*UDPSender)(nil)

// DialUDP opens the destination socket. Failure here aborts startup; it is
// the only fatal condition in the bridge.
func DialUDP(addr string) (*UDPSender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, err
	}
	return &UDPSender{conn: conn}, nil
}

// Send writes one datagram. There is no backpressure: an unreachable or
// slow destination surfaces as an error or is absorbed by the OS, never by
// blocking the caller's read loop.
func (s *UDPSender) Send(data []byte) error {
	_, err := s.conn.Write(data)
	return err
}

// Close releases the socket.
func (s *UDPSender) Close() error {
	return s.conn.Close()
}
