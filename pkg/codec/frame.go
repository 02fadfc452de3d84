package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// HeaderSize is the number of bytes before the payload.
const HeaderSize = 9

// VersionJSON marks a JSON payload.
const VersionJSON uint8 = 1

var (
	// ErrShort is returned when data is too short for its header or payload.
	ErrShort = errors.New("codec: frame too short")
	// ErrCorrupt is returned when a frame fails validation.
	ErrCorrupt = errors.New("codec: frame corrupt")
)

// Frame is a decoded frame.
type Frame struct {
	CRC32   uint32
	Version uint8
	Payload []byte
}

// Encode frames payload as a VersionJSON frame.
func Encode(payload []byte) []byte {
	return EncodeVersion(VersionJSON, payload)
}

// EncodeVersion frames payload with the given version.
func EncodeVersion(version uint8, payload []byte) []byte {
	if uint64(len(payload)) > math.MaxUint32 {
		panic("codec: payload too large")
	}

	buf := make([]byte, HeaderSize+len(payload))
	buf[4] = version
	binary.LittleEndian.PutUint32(buf[5:], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf
}

// Parse splits data into its fields without validating the checksum.
func Parse(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShort, len(data))
	}

	size := binary.LittleEndian.Uint32(data[5:9])
	if uint64(len(data)) < HeaderSize+uint64(size) {
		return nil, fmt.Errorf("%w: %d < %d", ErrShort, len(data), HeaderSize+uint64(size))
	}
	if uint64(len(data)) > HeaderSize+uint64(size) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, uint64(len(data))-HeaderSize-uint64(size))
	}

	return &Frame{
		CRC32:   binary.LittleEndian.Uint32(data[0:4]),
		Version: data[4],
		Payload: data[HeaderSize:],
	}, nil
}

// Decode parses data, checks its checksum and version, and returns the
// payload. The payload aliases data.
func Decode(data []byte) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sum := crc32.ChecksumIEEE(data[4:]); sum != f.CRC32 {
		return nil, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorrupt, f.CRC32, sum)
	}
	if f.Version != VersionJSON {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorrupt, f.Version)
	}
	return f.Payload, nil
}
