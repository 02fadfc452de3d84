// Package codec frames stored values with a checksum.
//
// # Frame Format
//
//	[CRC32(4)][Version(1)][PayloadSize(4)][Payload]
//
// Fields:
//   - CRC32: IEEE checksum of every byte after the CRC field (little-endian)
//   - Version: payload encoding version, currently 1 (JSON)
//   - PayloadSize: payload length in bytes (little-endian)
//   - Payload: the encoded value
//
// The total frame size is HeaderSize (9 bytes) + len(payload). A frame
// longer than its declared payload is rejected, as is any checksum
// mismatch, so a value truncated or overwritten on disk is reported instead
// of being parsed.
//
// # Usage
//
//	data := codec.Encode(payload)
//	payload, err := codec.Decode(data)
//	if errors.Is(err, codec.ErrCorrupt) {
//		// the stored bytes were damaged
//	}
package codec
