package lifx

import (
	"encoding/binary"
	"fmt"

	"github.com/rotisserie/eris"
)

const (
	headerSize = 36
	protocol   = 1024

	flagAddressable = 1 << 12
	flagTagged      = 1 << 13

	flagResRequired = 1 << 0
	flagAckRequired = 1 << 1
)

// Message types used by the client.
const (
	msgGetService      uint16 = 2
	msgStateService    uint16 = 3
	msgGetPower        uint16 = 20
	msgStatePower      uint16 = 22
	msgGetLabel        uint16 = 23
	msgStateLabel      uint16 = 25
	msgAcknowledgement uint16 = 45
	msgSetColor        uint16 = 102
	msgSetLightPower   uint16 = 117
)

var ErrShortPacket = eris.New("packet shorter than header")

type header struct {
	Size        uint16
	Tagged      bool
	Source      uint32
	Target      [8]byte
	AckRequired bool
	ResRequired bool
	Sequence    uint8
	Type        uint16
}

type packet struct {
	Header  header
	Payload []byte
}

func newPacket(msgType uint16, target [8]byte, source uint32, sequence uint8, payload []byte) packet {
	var zero [8]byte
	return packet{
		Header: header{
			Tagged:   target == zero,
			Source:   source,
			Target:   target,
			Sequence: sequence,
			Type:     msgType,
		},
		Payload: payload,
	}
}

func (p packet) MarshalBinary() ([]byte, error) {
	size := headerSize + len(p.Payload)
	if size > 0xffff {
		return nil, eris.Errorf("payload too large for message %d", p.Header.Type)
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint16(buf[0:], uint16(size))

	field := uint16(protocol | flagAddressable)
	if p.Header.Tagged {
		field |= flagTagged
	}
	binary.LittleEndian.PutUint16(buf[2:], field)
	binary.LittleEndian.PutUint32(buf[4:], p.Header.Source)
	copy(buf[8:16], p.Header.Target[:])

	var flags byte
	if p.Header.ResRequired {
		flags |= flagResRequired
	}
	if p.Header.AckRequired {
		flags |= flagAckRequired
	}
	buf[22] = flags
	buf[23] = p.Header.Sequence
	binary.LittleEndian.PutUint16(buf[32:], p.Header.Type)
	copy(buf[headerSize:], p.Payload)

	return buf, nil
}

func parsePacket(data []byte) (packet, error) {
	if len(data) < headerSize {
		return packet{}, eris.Wrapf(ErrShortPacket, "got %d bytes", len(data))
	}

	size := int(binary.LittleEndian.Uint16(data[0:]))
	if size < headerSize || size > len(data) {
		size = len(data)
	}

	var p packet
	p.Header.Size = uint16(size)
	p.Header.Tagged = binary.LittleEndian.Uint16(data[2:])&flagTagged != 0
	p.Header.Source = binary.LittleEndian.Uint32(data[4:])
	copy(p.Header.Target[:], data[8:16])
	p.Header.ResRequired = data[22]&flagResRequired != 0
	p.Header.AckRequired = data[22]&flagAckRequired != 0
	p.Header.Sequence = data[23]
	p.Header.Type = binary.LittleEndian.Uint16(data[32:])
	p.Payload = append([]byte(nil), data[headerSize:size]...)

	return p, nil
}

func setColorPayload(c HSBK, durationMs uint32) []byte {
	buf := make([]byte, 13)
	binary.LittleEndian.PutUint16(buf[1:], c.Hue)
	binary.LittleEndian.PutUint16(buf[3:], c.Saturation)
	binary.LittleEndian.PutUint16(buf[5:], c.Brightness)
	binary.LittleEndian.PutUint16(buf[7:], c.Kelvin)
	binary.LittleEndian.PutUint32(buf[9:], durationMs)
	return buf
}

func setPowerPayload(level uint16, durationMs uint32) []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:], level)
	binary.LittleEndian.PutUint32(buf[2:], durationMs)
	return buf
}

func parseStateService(payload []byte) (service uint8, port uint32, err error) {
	if len(payload) < 5 {
		return 0, 0, eris.Wrapf(ErrShortPacket, "StateService payload %d bytes", len(payload))
	}
	return payload[0], binary.LittleEndian.Uint32(payload[1:]), nil
}

func parseStateLabel(payload []byte) string {
	end := len(payload)
	for i, b := range payload {
		if b == 0 {
			end = i
			break
		}
	}
	return string(payload[:end])
}

func parseStatePower(payload []byte) (uint16, error) {
	if len(payload) < 2 {
		return 0, eris.Wrapf(ErrShortPacket, "StatePower payload %d bytes", len(payload))
	}
	return binary.LittleEndian.Uint16(payload), nil
}

func formatMAC(target [8]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		target[0], target[1], target[2], target[3], target[4], target[5])
}
