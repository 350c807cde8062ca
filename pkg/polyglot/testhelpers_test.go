package polyglot

import (
	"encoding/binary"
)

// buildChunk assembles a complete length-prefixed, CRC-suffixed PNG chunk.
func buildChunk(chunkType string, data []byte) []byte {
	out := make([]byte, 0, len(data)+12)
	lenField := make([]byte, 4)
	binary.BigEndian.PutUint32(lenField, uint32(len(data)))
	out = append(out, lenField...)
	out = append(out, []byte(chunkType)...)
	out = append(out, data...)
	crc := crc32PNG(append([]byte(chunkType), data...))
	crcField := make([]byte, 4)
	binary.BigEndian.PutUint32(crcField, crc)
	out = append(out, crcField...)
	return out
}

// buildTestPNG constructs a minimal, structurally valid PNG with the given
// dimensions, color type, optional palette, and IDAT payloads (one chunk
// per payload), plus any extra ancillary chunks to splice in after IHDR.
func buildTestPNG(width, height int, colorType byte, palette []byte, idatPayloads [][]byte, extraChunks [][]byte) []byte {
	ihdrData := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdrData[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdrData[4:8], uint32(height))
	ihdrData[8] = 8 // bit depth
	ihdrData[9] = colorType
	// remaining bytes (compression, filter, interlace) are zero

	// pngSignature holds only the first 4 of the 8 PNG signature bytes.
	out := append(append([]byte{}, pngSignature...), 0x0D, 0x0A, 0x1A, 0x0A)
	out = append(out, buildChunk("IHDR", ihdrData)...)
	for _, c := range extraChunks {
		out = append(out, c...)
	}
	if palette != nil {
		out = append(out, buildChunk("PLTE", palette)...)
	}
	for _, payload := range idatPayloads {
		out = append(out, buildChunk("IDAT", payload)...)
	}
	out = append(out, buildChunk("IEND", nil)...)
	return out
}
