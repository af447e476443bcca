// Package lifx is a minimal LIFX LAN protocol client: discovery, power and color.
package lifx

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const (
	// DefaultPort is the LAN protocol UDP port.
	DefaultPort = 56700
	// default time to collect discovery replies
	defaultDiscoverTimeout = 2 * time.Second
	// services advertised in StateService
	serviceUDP = 1
)

// HSBK is a LIFX color: hue, saturation and brightness on 0..65535 plus kelvin.
type HSBK struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

// NewBulbFromAddress builds a Bulb for ip[:port]. mac may be empty, in which
// case messages are sent tagged (every device at the address accepts them).
func NewBulbFromAddress(address, mac string) (*Bulb, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, strconv.Itoa(DefaultPort))
	}

	addr, err := netip.ParseAddrPort(address)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse bulb address")
	}

	var target [8]byte
	if mac != "" {
		hw, err := net.ParseMAC(mac)
		if err != nil {
			return nil, eris.Wrap(err, "failed to parse bulb MAC address")
		}
		if len(hw) != 6 {
			return nil, eris.Errorf("bulb MAC address must be 6 bytes, got %d", len(hw))
		}
		copy(target[:], hw)
	}

	return newBulb(addr, target), nil
}

// Discover broadcasts GetService and collects every bulb that answers before
// timeout elapses.
func Discover(ctx context.Context, timeout time.Duration) ([]*Bulb, error) {
	if timeout <= 0 {
		timeout = defaultDiscoverTimeout
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, eris.Wrap(err, "failed to open discovery socket")
	}
	defer conn.Close()

	source := newSource()
	p := newPacket(msgGetService, [8]byte{}, source, 0, nil)
	p.Header.ResRequired = true
	msg, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}

	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: DefaultPort}
	if _, err := conn.WriteToUDP(msg, broadcast); err != nil {
		return nil, eris.Wrap(err, "failed to broadcast discovery message")
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, eris.Wrap(err, "failed to set read deadline for discovery socket")
	}

	seen := make(map[[8]byte]bool)
	bulbs := make([]*Bulb, 0)
	buf := make([]byte, 1024)
	for {
		if ctx.Err() != nil {
			return bulbs, eris.Wrap(ctx.Err(), "discovery interrupted")
		}

		n, from, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return bulbs, nil
			}
			return bulbs, eris.Wrap(err, "failed to read discovery reply")
		}

		bulb, ok := bulbFromDiscoveryReply(buf[:n], from, source)
		if !ok || seen[bulb.target] {
			continue
		}
		seen[bulb.target] = true
		bulbs = append(bulbs, bulb)
	}
}

func bulbFromDiscoveryReply(data []byte, from netip.AddrPort, source uint32) (*Bulb, bool) {
	p, err := parsePacket(data)
	if err != nil || p.Header.Type != msgStateService || p.Header.Source != source {
		return nil, false
	}

	service, port, err := parseStateService(p.Payload)
	if err != nil || service != serviceUDP || port == 0 || port > 0xffff {
		return nil, false
	}

	addr := netip.AddrPortFrom(from.Addr().Unmap(), uint16(port))
	return newBulb(addr, p.Header.Target), true
}
