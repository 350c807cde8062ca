// Package polyglot builds PNG/ZIP polyglot images: a PNG that is also a
// valid ZIP archive and a self-extracting dual-shell script.
package polyglot

// =================================
// File size limits
// =================================
const (
	MaxFileSize   = 209715200 // 200 MiB, final output hard cap.
	MinImageSize  = 68        // bytes, input PNG.
	MinZipSize    = 40        // bytes, input ZIP.
	MaxScriptSize = 750       // bytes, complete iCCP chunk (framing included).
)

// =================================
// Supported PNG dimension windows
// =================================
const (
	MinDims             = 68
	MaxTruecolorDims    = 899
	MaxIndexedColorDims = 4096
)

// =================================
// PNG color type values
// =================================
const (
	ColorTypeIndexed            = 3
	ColorTypeTruecolor          = 2
	ColorTypeTruecolorWithAlpha = 6
)

// =================================
// Fixed PNG byte offsets
// =================================
const (
	pngSigSize       = 8
	ihdrChunkEnd     = 33 // signature(8) + length(4) + "IHDR"(4) + data(13) + crc(4)
	ihdrBadCharStart = 19 // first byte of the range checked for forbidden characters
	ihdrBadCharEnd   = 32 // last byte (inclusive) of that range
	widthOffset      = 18
	heightOffset     = 22
	colorTypeOffset  = 25
)

// forbiddenBytes are characters that would prematurely terminate or
// misparse the POSIX-shell prefix of the extraction script if they
// appeared within the PNG byte ranges the script's shell reads first.
var forbiddenBytes = [...]byte{0x22, 0x27, 0x28, 0x29, 0x3B, 0x3E, 0x60}

func containsForbiddenByte(b byte) bool {
	for _, f := range forbiddenBytes {
		if b == f {
			return true
		}
	}
	return false
}

var (
	pngSignature    = []byte{0x89, 0x50, 0x4E, 0x47}
	pngEndSignature = []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}

	idatType = []byte("IDAT")
	plteType = []byte("PLTE")

	zipLocalFileSig     = []byte{0x50, 0x4B, 0x03, 0x04}
	zipCentralDirSig    = []byte{0x50, 0x4B, 0x01, 0x02}
	zipEndCentralDirSig = []byte{0x50, 0x4B, 0x05, 0x06}
)
