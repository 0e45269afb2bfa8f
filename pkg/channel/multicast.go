package channel

import (
	"fmt"
	"net"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/rs/zerolog"
)

const maxDatagram = 60 * 1024

// Multicast is the ephemeral transport: a UDP multicast group reaching every
// page process on the machine. Delivery is best-effort and only while both
// sides are running; construction can fail on hosts without multicast
// support, which the Channel treats as "run persistent-only".
type Multicast struct {
	group    *net.UDPAddr
	readConn *net.UDPConn
	sendConn *net.UDPConn
	recvCh   chan *Message
	stopCh   chan struct{}
	logger   zerolog.Logger
}

// NewMulticast joins the group and starts the read loop.
func NewMulticast(group string) (*Multicast, error) {
	addr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("invalid multicast group %q: %w", group, err)
	}

	readConn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to join multicast group: %w", err)
	}
	_ = readConn.SetReadBuffer(maxDatagram)

	sendConn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		readConn.Close()
		return nil, fmt.Errorf("failed to open multicast sender: %w", err)
	}

	m := &Multicast{
		group:    addr,
		readConn: readConn,
		sendConn: sendConn,
		recvCh:   make(chan *Message, 100),
		stopCh:   make(chan struct{}),
		logger:   log.WithComponent("multicast"),
	}
	go m.readLoop()
	return m, nil
}

// Name identifies the transport in logs and metrics.
func (m *Multicast) Name() string { return "multicast" }

// Send broadcasts one message to the group.
func (m *Multicast) Send(msg *Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	if len(data) > maxDatagram {
		return fmt.Errorf("message exceeds datagram limit (%d bytes)", len(data))
	}
	if _, err := m.sendConn.Write(data); err != nil {
		metrics.TransportErrors.WithLabelValues(m.Name()).Inc()
		return fmt.Errorf("multicast send: %w", err)
	}
	return nil
}

// Receive returns the stream of messages read from the group. The channel
// closes when the transport closes.
func (m *Multicast) Receive() <-chan *Message {
	return m.recvCh
}

// Close leaves the group and stops the read loop.
func (m *Multicast) Close() error {
	close(m.stopCh)
	m.sendConn.Close()
	return m.readConn.Close()
}

func (m *Multicast) readLoop() {
	defer close(m.recvCh)
	buf := make([]byte, maxDatagram)

	for {
		n, _, err := m.readConn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-m.stopCh:
				return
			default:
			}
			m.logger.Warn().Err(err).Msg("multicast read failed")
			metrics.TransportErrors.WithLabelValues(m.Name()).Inc()
			return
		}

		msg, err := Parse(buf[:n])
		if err != nil {
			metrics.MessagesDropped.WithLabelValues("malformed").Inc()
			m.logger.Debug().Err(err).Msg("dropped malformed datagram")
			continue
		}

		metrics.MessagesReceived.WithLabelValues(msg.Type, m.Name()).Inc()
		select {
		case m.recvCh <- msg:
		default:
			metrics.MessagesDropped.WithLabelValues("buffer_full").Inc()
		}
	}
}
