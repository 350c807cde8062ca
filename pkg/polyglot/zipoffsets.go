package polyglot

import (
	"bytes"
	"encoding/binary"

	"github.com/hashicorp/go-hclog"
)

// Offsets within a ZIP central-directory record and end-of-central-directory
// record, relative to the start of each signature. See spec.md §4.H.
const (
	centralDirLocalOffsetFromSig = 42 // local-header-offset field, relative to "PK\x01\x02"
	endCentralDirRecordCountOff  = 10 // total-entries field, relative to "PK\x05\x06"
	endCentralDirStartOff        = 16 // central-directory-start-offset field
	endCentralDirCommentLenOff   = 20 // comment-length field
)

// FixZipOffsets rewrites every local-file-header offset recorded in the
// embedded ZIP's central directory, plus the central directory's own start
// offset, to their absolute positions within buf, so that they account for
// the image, script and IDAT framing bytes now sitting in front of the
// archive. Each central-directory record takes the next local-file header
// found after the previous one. It also widens the archive comment length by 16,
// matching the padding the upstream tool reserves there. idatZipIndex is the
// absolute byte offset, within the final polyglot buffer, of the ZIP's first
// local-file-header signature.
func FixZipOffsets(logger hclog.Logger, buf []byte, idatZipIndex int) error {
	centralStartIndex := bytes.Index(buf[idatZipIndex:], zipCentralDirSig)
	if centralStartIndex < 0 {
		return newErr(CategoryZipShape, "start of central directory record not found")
	}
	centralStartIndex += idatZipIndex

	endOffset := bytes.Index(buf[centralStartIndex:], zipEndCentralDirSig)
	if endOffset < 0 {
		return newErr(CategoryZipShape, "end of central directory record not found")
	}
	endIndex := centralStartIndex + endOffset

	recordCount := int(binary.LittleEndian.Uint16(buf[endIndex+endCentralDirRecordCountOff : endIndex+endCentralDirRecordCountOff+2]))

	search := centralStartIndex
	localSearch := idatZipIndex
	for i := 0; i < recordCount; i++ {
		rec := bytes.Index(buf[search:], zipCentralDirSig)
		if rec < 0 {
			return newErr(CategoryZipShape, "central directory record count does not match entries found")
		}
		rec += search

		localOffsetField := rec + centralDirLocalOffsetFromSig
		localHeaderIndex := bytes.Index(buf[localSearch:rec], zipLocalFileSig)
		if localHeaderIndex < 0 {
			return newErr(CategoryZipShape, "local file header not found for central directory entry")
		}
		localHeaderIndex += localSearch
		writeLE(buf, localOffsetField+3, uint64(localHeaderIndex), 32)

		search = rec + len(zipCentralDirSig)
		localSearch = localHeaderIndex + len(zipLocalFileSig)
	}

	writeLE(buf, endIndex+endCentralDirStartOff+3, uint64(centralStartIndex), 32)

	commentLen := binary.LittleEndian.Uint16(buf[endIndex+endCentralDirCommentLenOff : endIndex+endCentralDirCommentLenOff+2])
	writeLE(buf, endIndex+endCentralDirCommentLenOff+1, uint64(commentLen)+16, 16)

	logger.Debug("fixed zip offsets", "central_dir_start", centralStartIndex, "records", recordCount)
	return nil
}
