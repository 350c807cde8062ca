package polyglot

import (
	"bytes"
	"encoding/binary"

	"github.com/hashicorp/go-hclog"
)

// Info captures the IHDR fields this package inspects. Width and Height
// are read from the low 16 bits of the IHDR's 32-bit fields, matching the
// upstream tool this package is modeled on; see the Open Question in
// spec.md §9 about the resulting 65535 practical ceiling (moot, since our
// supported windows top out at 4096).
type Info struct {
	Width       int
	Height      int
	ColorType   byte // raw IHDR byte: 2, 3, or 6
	InternalCT  byte // 6 (truecolor+alpha) folded into 2 (truecolor)
}

// NormalizePNG validates a cover image against spec.md §4.C and returns a
// pruned buffer containing only IHDR, [PLTE], all IDATs, and IEND — in
// that order, with every other ancillary chunk stripped.
func NormalizePNG(logger hclog.Logger, data []byte) ([]byte, Info, error) {
	var info Info

	if len(data) < ihdrChunkEnd+12 {
		return nil, info, newErr(CategoryPngShape, "file does not appear to be a valid PNG image")
	}

	if !bytes.Equal(data[:len(pngSignature)], pngSignature) ||
		!bytes.Equal(data[len(data)-len(pngEndSignature):], pngEndSignature) {
		return nil, info, newErr(CategoryPngShape, "file does not appear to be a valid PNG image")
	}

	for i := ihdrBadCharStart; i <= ihdrBadCharEnd; i++ {
		if containsForbiddenByte(data[i]) {
			return nil, info, newErr(CategoryPngShape,
				"the IHDR chunk contains a character that will break the extraction script; "+
					"modify image dimensions ~1%% to resolve")
		}
	}

	info.ColorType = data[colorTypeOffset]
	info.InternalCT = info.ColorType
	if info.InternalCT == ColorTypeTruecolorWithAlpha {
		info.InternalCT = ColorTypeTruecolor
	}
	if info.InternalCT != ColorTypeTruecolor && info.InternalCT != ColorTypeIndexed {
		return nil, info, newErr(CategoryPngShape,
			"color type of PNG image is not supported; truecolor or indexed-color only")
	}

	info.Width = int(data[widthOffset])<<8 | int(data[widthOffset+1])
	info.Height = int(data[heightOffset])<<8 | int(data[heightOffset+1])

	maxDims := MaxTruecolorDims
	if info.InternalCT == ColorTypeIndexed {
		maxDims = MaxIndexedColorDims
	}
	if info.Width < MinDims || info.Width > maxDims || info.Height < MinDims || info.Height > maxDims {
		return nil, info, newErr(CategoryPngShape,
			"dimensions of PNG image (%dx%d) are not within the supported range", info.Width, info.Height)
	}

	logger.Debug("validated IHDR", "width", info.Width, "height", info.Height, "color_type", info.ColorType)

	idatIndex, found := findChunk(data, idatType, 0)
	if !found {
		return nil, info, newErr(CategoryPngShape, "no IDAT chunk found")
	}
	if err := verifyChunkCRC(data, idatIndex); err != nil {
		return nil, info, err
	}

	pruned, err := pruneChunks(data, idatIndex, info.ColorType)
	if err != nil {
		return nil, info, err
	}

	logger.Debug("pruned ancillary chunks", "original_size", len(data), "pruned_size", len(pruned))
	return pruned, info, nil
}

// findChunk linearly searches for the 4-byte ASCII chunk type starting at
// or after "from", and returns the index of the chunk's length field
// (4 bytes before the type).
func findChunk(data []byte, chunkType []byte, from int) (int, bool) {
	idx := bytes.Index(data[from:], chunkType)
	if idx < 0 {
		return 0, false
	}
	return from + idx - 4, true
}

// verifyChunkCRC checks the CRC of the chunk whose length field begins at
// chunkIndex against the PNG CRC over type ∥ data.
func verifyChunkCRC(data []byte, chunkIndex int) error {
	length := binary.BigEndian.Uint32(data[chunkIndex : chunkIndex+4])
	crcIndex := chunkIndex + 4 + 4 + int(length)
	if crcIndex+4 > len(data) {
		return newErr(CategoryPngIntegrity, "chunk length extends past end of file")
	}
	stored := binary.BigEndian.Uint32(data[crcIndex : crcIndex+4])
	calc := crc32PNG(data[chunkIndex+4 : crcIndex])
	if stored != calc {
		return newErr(CategoryPngIntegrity, "CRC value for first IDAT chunk is invalid")
	}
	return nil
}

// pruneChunks builds the normalized buffer: signature+IHDR, optional
// PLTE (indexed color only), every IDAT chunk in order, then IEND.
func pruneChunks(data []byte, idatIndex int, colorType byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	out = append(out, data[:ihdrChunkEnd]...)

	if colorType == ColorTypeIndexed {
		plteIndex, found := findChunk(data, plteType, 0)
		if !found || plteIndex >= idatIndex {
			return nil, newErr(CategoryPngStructure,
				"required PLTE chunk not found for indexed-color image")
		}
		plteLength := binary.BigEndian.Uint32(data[plteIndex : plteIndex+4])
		out = append(out, data[plteIndex:plteIndex+int(plteLength)+12]...)
	}

	for {
		length := binary.BigEndian.Uint32(data[idatIndex : idatIndex+4])
		chunkEnd := idatIndex + int(length) + 12
		out = append(out, data[idatIndex:chunkEnd]...)

		next, found := findChunk(data, idatType, chunkEnd)
		if !found {
			break
		}
		idatIndex = next
	}

	out = append(out, data[len(data)-12:]...)
	return out, nil
}
