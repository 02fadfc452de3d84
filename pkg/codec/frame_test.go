package codec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
	}{
		{name: "json object", payload: []byte(`{"family":"tag25h7","observed":17}`)},
		{name: "empty", payload: []byte{}},
		{name: "binary", payload: []byte{0x00, 0xff, 0x10}},
		{name: "large", payload: bytes.Repeat([]byte("v"), 10240)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := Encode(tc.payload)
			assert.Len(t, data, HeaderSize+len(tc.payload))

			payload, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tc.payload, payload)
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	data := Encode([]byte("abc"))

	assert.Equal(t, VersionJSON, data[4])
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[5:9]))
	assert.Equal(t, []byte("abc"), data[9:])

	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian.Uint32(data[0:4]), f.CRC32)
}

func TestDecode_Corruption(t *testing.T) {
	good := Encode([]byte(`{"id":"x"}`))

	t.Run("flipped payload bit", func(t *testing.T) {
		data := bytes.Clone(good)
		data[len(data)-1] ^= 0x01
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("flipped checksum bit", func(t *testing.T) {
		data := bytes.Clone(good)
		data[0] ^= 0x80
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode(good[:HeaderSize-1])
		assert.ErrorIs(t, err, ErrShort)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Decode(good[:len(good)-2])
		assert.ErrorIs(t, err, ErrShort)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Decode(append(bytes.Clone(good), 0))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := Decode(EncodeVersion(9, []byte("{}")))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}
