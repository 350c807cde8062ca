package polyglot

import (
	"bytes"

	"github.com/hashicorp/go-hclog"
)

const (
	minInZipNameLength = 4
	// Offsets within the framed IDAT buffer (8-byte header already
	// prepended), matching spec.md §3/§4.D.
	zipSigOffset       = 8
	zipNameLenOffset   = 34
	zipFirstNameOffset = 38
)

// FrameZIP wraps the user's ZIP bytes as a trailing IDAT chunk: an 8-byte
// IDAT header (length placeholder + "IDAT"), the raw ZIP bytes, then a
// 4-byte CRC placeholder. It then validates the embedded archive's first
// local-file header per spec.md §4.D.
func FrameZIP(logger hclog.Logger, zipData []byte) ([]byte, error) {
	buf := make([]byte, 0, len(zipData)+16)
	buf = append(buf, 0x00, 0x00, 0x00, 0x00, 'I', 'D', 'A', 'T')
	buf = append(buf, zipData...)
	buf = append(buf, 0x00, 0x00, 0x00, 0x00)

	writeBE(buf, 0, uint64(len(buf)-12), 32)

	if !bytes.Equal(buf[zipSigOffset:zipSigOffset+4], zipLocalFileSig) {
		return nil, newErr(CategoryZipShape, "file does not appear to be a valid ZIP archive")
	}

	nameLen := int(buf[zipNameLenOffset])
	if nameLen < minInZipNameLength {
		return nil, newErr(CategoryZipShape,
			"name length of first file within ZIP archive is too short; "+
				"increase its length (minimum 4 characters) and make sure it has a valid extension")
	}

	logger.Debug("framed ZIP as IDAT", "zip_size", len(zipData), "first_name_len", nameLen)
	return buf, nil
}

// firstEntryName returns the first local-file header's filename from a
// framed ZIP buffer (as produced by FrameZIP).
func firstEntryName(framed []byte) string {
	nameLen := int(framed[zipNameLenOffset])
	return string(framed[zipFirstNameOffset : zipFirstNameOffset+nameLen])
}
