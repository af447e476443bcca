package lifx

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

const (
	// DefaultAckTimeout bounds the wait for an Acknowledgement or state reply.
	DefaultAckTimeout = 250 * time.Millisecond

	responseBuffer = 16
)

var (
	ErrNotConnected = eris.New("bulb is not connected")
	ErrAckTimeout   = eris.New("timed out waiting for bulb response")
)

// Bulb is a single LIFX device reachable over UDP.
type Bulb struct {
	addr   netip.AddrPort
	target [8]byte
	source uint32

	mu       sync.Mutex
	conn     *net.UDPConn
	sequence uint8
	label    string
	power    uint16

	// AckRequired asks the bulb to acknowledge every SetColor/SetPower.
	AckRequired bool
	AckTimeout  time.Duration

	responses chan packet
	await     func(context.Context, uint8, uint16) (packet, error)
}

func newBulb(addr netip.AddrPort, target [8]byte) *Bulb {
	responses := make(chan packet, responseBuffer)
	b := &Bulb{
		addr:        addr,
		target:      target,
		source:      newSource(),
		AckRequired: true,
		AckTimeout:  DefaultAckTimeout,
		responses:   responses,
	}
	b.await = func(ctx context.Context, seq uint8, want uint16) (packet, error) {
		return awaitResponse(ctx, responses, seq, want, b.AckTimeout)
	}
	return b
}

func (b *Bulb) Addr() netip.AddrPort {
	return b.addr
}

// MAC returns the device address, or an empty string for untargeted bulbs.
func (b *Bulb) MAC() string {
	if b.target == ([8]byte{}) {
		return ""
	}
	return formatMAC(b.target)
}

func (b *Bulb) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Bulb) Powered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.power > 0
}

func (b *Bulb) String() string {
	label := b.Label()
	if label == "" {
		label = "LIFX"
	}
	if mac := b.MAC(); mac != "" {
		return fmt.Sprintf("%s (%s, %s)", label, b.addr, mac)
	}
	return fmt.Sprintf("%s (%s)", label, b.addr)
}

// Connect opens the UDP socket and starts the reader goroutine. The reader
// stops when ctx is cancelled or Disconnect is called.
func (b *Bulb) Connect(ctx context.Context) error {
	conn, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(b.addr))
	if err != nil {
		return eris.Wrap(err, "failed to connect to bulb")
	}

	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()

	go b.readMessages(ctx, conn)
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	return nil
}

func (b *Bulb) Disconnect() error {
	b.mu.Lock()
	conn := b.conn
	b.conn = nil
	b.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// SetColor sends a LightSetColor message with the given transition duration.
func (b *Bulb) SetColor(ctx context.Context, color HSBK, duration time.Duration) error {
	return b.executeCommand(ctx, msgSetColor, setColorPayload(color, durationMillis(duration)))
}

// SetPower switches the light on or off.
func (b *Bulb) SetPower(ctx context.Context, on bool, duration time.Duration) error {
	var level uint16
	if on {
		level = 0xffff
	}

	if err := b.executeCommand(ctx, msgSetLightPower, setPowerPayload(level, durationMillis(duration))); err != nil {
		return err
	}

	b.mu.Lock()
	b.power = level
	b.mu.Unlock()

	return nil
}

// RefreshLabel queries the device label and caches it.
func (b *Bulb) RefreshLabel(ctx context.Context) (string, error) {
	p, err := b.query(ctx, msgGetLabel, msgStateLabel)
	if err != nil {
		return "", err
	}

	label := parseStateLabel(p.Payload)

	b.mu.Lock()
	b.label = label
	b.mu.Unlock()

	return label, nil
}

// RefreshPower queries the current power level and caches it.
func (b *Bulb) RefreshPower(ctx context.Context) (bool, error) {
	p, err := b.query(ctx, msgGetPower, msgStatePower)
	if err != nil {
		return false, err
	}

	level, err := parseStatePower(p.Payload)
	if err != nil {
		return false, err
	}

	b.mu.Lock()
	b.power = level
	b.mu.Unlock()

	return level > 0, nil
}

func (b *Bulb) executeCommand(ctx context.Context, msgType uint16, payload []byte) error {
	seq, err := b.send(ctx, msgType, payload, b.AckRequired, false)
	if err != nil {
		return err
	}

	if !b.AckRequired {
		return nil
	}

	_, err = b.await(ctx, seq, msgAcknowledgement)
	return err
}

func (b *Bulb) query(ctx context.Context, msgType, want uint16) (packet, error) {
	seq, err := b.send(ctx, msgType, nil, false, true)
	if err != nil {
		return packet{}, err
	}

	return b.await(ctx, seq, want)
}

func (b *Bulb) send(ctx context.Context, msgType uint16, payload []byte, ack, res bool) (uint8, error) {
	select {
	case <-ctx.Done():
		return 0, eris.Wrap(ctx.Err(), "failed to send message")
	default:
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return 0, ErrNotConnected
	}

	b.sequence++
	p := newPacket(msgType, b.target, b.source, b.sequence, payload)
	p.Header.AckRequired = ack
	p.Header.ResRequired = res

	data, err := p.MarshalBinary()
	if err != nil {
		return 0, err
	}

	slog.Debug("sending message to bulb",
		slog.String("addr", b.addr.String()),
		slog.Int("type", int(msgType)),
		slog.Int("sequence", int(p.Header.Sequence)),
	)

	if _, err := b.conn.Write(data); err != nil {
		return 0, eris.Wrap(err, "failed to write message to bulb")
	}

	return p.Header.Sequence, nil
}

func (b *Bulb) readMessages(ctx context.Context, conn *net.UDPConn) {
	addr := b.addr.String()
	buf := make([]byte, 1024)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := conn.Read(buf)
		if err != nil {
			if eris.Is(err, net.ErrClosed) {
				return
			}

			slog.Error("failed to read data from bulb connection",
				slog.String("addr", addr),
				slog.Any("error", err),
			)
			return
		}

		b.handleIncoming(buf[:n], addr)
	}
}

func (b *Bulb) handleIncoming(data []byte, addr string) {
	p, err := parsePacket(data)
	if err != nil {
		slog.Debug("ignoring malformed packet from bulb",
			slog.String("addr", addr),
			slog.Any("error", err),
		)
		return
	}

	if p.Header.Source != b.source {
		return
	}

	select {
	case b.responses <- p:
	default:
		// nobody is waiting; replies for abandoned sequences pile up otherwise
		select {
		case <-b.responses:
		default:
		}
		select {
		case b.responses <- p:
		default:
		}
	}
}

func awaitResponse(ctx context.Context, responses <-chan packet, seq uint8, want uint16, wait time.Duration) (packet, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case p := <-responses:
			if p.Header.Sequence == seq && p.Header.Type == want {
				return p, nil
			}
		case <-timer.C:
			return packet{}, eris.Wrapf(ErrAckTimeout, "message type %d, sequence %d", want, seq)
		case <-ctx.Done():
			return packet{}, eris.Wrapf(ctx.Err(), "waiting for message type %d", want)
		}
	}
}

func durationMillis(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d / time.Millisecond)
}

func newSource() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 2
	}
	// 0 and 1 make devices broadcast their replies
	if s := binary.LittleEndian.Uint32(buf[:]); s > 1 {
		return s
	}
	return 2
}
