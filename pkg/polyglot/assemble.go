package polyglot

import (
	"github.com/hashicorp/go-hclog"
)

// Assemble splices script (the composed iCCP chunk) and framedZip (the
// trailing IDAT chunk carrying the ZIP archive) into pruned (the
// normalized cover image from NormalizePNG), fixes up the embedded ZIP's
// internal offsets to match its new position, and recomputes the final
// IDAT chunk's CRC. The result is a single buffer that is simultaneously a
// valid PNG and a valid ZIP. See spec.md §4.G.
func Assemble(logger hclog.Logger, pruned, script, framedZip []byte) ([]byte, error) {
	head := pruned[:ihdrChunkEnd]
	body := pruned[ihdrChunkEnd : len(pruned)-12]
	end := pruned[len(pruned)-12:]

	out := make([]byte, 0, len(pruned)+len(script)+len(framedZip))
	out = append(out, head...)
	out = append(out, script...)
	out = append(out, body...)

	idatStart := len(out)
	out = append(out, framedZip...)
	out = append(out, end...)

	idatZipIndex := idatStart + 8 // 4-byte length + "IDAT" precede the zip signature
	if err := FixZipOffsets(logger, out, idatZipIndex); err != nil {
		return nil, err
	}

	framedEnd := idatStart + len(framedZip)
	crc := crc32PNG(out[idatStart+4 : framedEnd-4])
	writeBE(out, framedEnd-4, uint64(crc), 32)

	logger.Debug("assembled polyglot", "total_size", len(out), "idat_start", idatStart)
	return out, nil
}
