package lifx

import (
	"context"
	"encoding/binary"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitResponseSuccess(t *testing.T) {
	responses := make(chan packet, 2)
	responses <- packet{Header: header{Sequence: 3, Type: msgAcknowledgement}}
	responses <- packet{Header: header{Sequence: 4, Type: msgAcknowledgement}}

	p, err := awaitResponse(context.Background(), responses, 4, msgAcknowledgement, 50*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, uint8(4), p.Header.Sequence)
}

func TestAwaitResponseTimeout(t *testing.T) {
	responses := make(chan packet, 1)
	responses <- packet{Header: header{Sequence: 1, Type: msgStateLabel}}

	_, err := awaitResponse(context.Background(), responses, 1, msgAcknowledgement, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrAckTimeout)
}

func TestAwaitResponseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := awaitResponse(ctx, make(chan packet), 1, msgAcknowledgement, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewBulbFromAddress(t *testing.T) {
	b, err := NewBulbFromAddress("192.168.1.20", "d0:73:d5:aa:bb:cc")
	require.NoError(t, err)
	assert.Equal(t, uint16(DefaultPort), b.Addr().Port())
	assert.Equal(t, "d0:73:d5:aa:bb:cc", b.MAC())

	b, err = NewBulbFromAddress("10.0.0.5:6000", "")
	require.NoError(t, err)
	assert.Equal(t, uint16(6000), b.Addr().Port())
	assert.Empty(t, b.MAC())

	_, err = NewBulbFromAddress("not-an-ip", "")
	assert.Error(t, err)

	_, err = NewBulbFromAddress("10.0.0.5", "zz")
	assert.Error(t, err)
}

func TestBulbFromDiscoveryReply(t *testing.T) {
	payload := make([]byte, 5)
	payload[0] = serviceUDP
	binary.LittleEndian.PutUint32(payload[1:], 56701)

	target := [8]byte{0xd0, 0x73, 0xd5, 1, 2, 3}
	data, err := newPacket(msgStateService, target, 77, 0, payload).MarshalBinary()
	require.NoError(t, err)

	from := netip.MustParseAddrPort("192.168.1.30:56700")

	b, ok := bulbFromDiscoveryReply(data, from, 77)
	require.True(t, ok)
	assert.Equal(t, "192.168.1.30:56701", b.Addr().String())
	assert.Equal(t, "d0:73:d5:01:02:03", b.MAC())

	_, ok = bulbFromDiscoveryReply(data, from, 78)
	assert.False(t, ok, "replies to another client are ignored")
}

// fakeDevice answers every packet it receives over loopback UDP.
type fakeDevice struct {
	conn     *net.UDPConn
	received chan packet
	silent   bool
}

func startFakeDevice(t *testing.T, silent bool) *fakeDevice {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	d := &fakeDevice{conn: conn, received: make(chan packet, 16), silent: silent}
	go d.serve()
	return d
}

func (d *fakeDevice) serve() {
	buf := make([]byte, 1024)
	for {
		n, from, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		p, err := parsePacket(buf[:n])
		if err != nil {
			continue
		}
		d.received <- p

		if d.silent {
			continue
		}

		var reply packet
		switch {
		case p.Header.Type == msgGetLabel:
			label := make([]byte, 32)
			copy(label, "Desk")
			reply = newPacket(msgStateLabel, p.Header.Target, p.Header.Source, p.Header.Sequence, label)
		case p.Header.AckRequired:
			reply = newPacket(msgAcknowledgement, p.Header.Target, p.Header.Source, p.Header.Sequence, nil)
		default:
			continue
		}

		data, _ := reply.MarshalBinary()
		_, _ = d.conn.WriteToUDP(data, from)
	}
}

func (d *fakeDevice) addr() string {
	return d.conn.LocalAddr().String()
}

func TestBulbSetColorAcknowledged(t *testing.T) {
	device := startFakeDevice(t, false)

	b, err := NewBulbFromAddress(device.addr(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	color := HSBK{Hue: 100, Saturation: 65535, Brightness: 200, Kelvin: 3500}
	require.NoError(t, b.SetColor(ctx, color, 0))

	got := <-device.received
	assert.Equal(t, msgSetColor, got.Header.Type)
	assert.True(t, got.Header.AckRequired)
	assert.Equal(t, uint16(200), binary.LittleEndian.Uint16(got.Payload[5:]))

	require.NoError(t, b.SetPower(ctx, true, 0))
	assert.True(t, b.Powered())

	label, err := b.RefreshLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Desk", label)
	assert.Contains(t, b.String(), "Desk")
}

func TestBulbSetColorTimesOut(t *testing.T) {
	device := startFakeDevice(t, true)

	b, err := NewBulbFromAddress(device.addr(), "")
	require.NoError(t, err)
	b.AckTimeout = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	err = b.SetColor(ctx, HSBK{}, 0)
	assert.ErrorIs(t, err, ErrAckTimeout)
}

func TestBulbFireAndForget(t *testing.T) {
	device := startFakeDevice(t, true)

	b, err := NewBulbFromAddress(device.addr(), "")
	require.NoError(t, err)
	b.AckRequired = false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	require.NoError(t, b.SetColor(ctx, HSBK{Brightness: 1}, 0))
	got := <-device.received
	assert.False(t, got.Header.AckRequired)
}

func TestBulbNotConnected(t *testing.T) {
	b, err := NewBulbFromAddress("127.0.0.1", "")
	require.NoError(t, err)

	err = b.SetColor(context.Background(), HSBK{}, 0)
	assert.ErrorIs(t, err, ErrNotConnected)
}
