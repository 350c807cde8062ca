package polyglot

import "encoding/binary"

// buildTestZIP assembles a minimal, uncompressed (stored), single-entry ZIP
// archive: one local file header, one central directory record, and an
// end-of-central-directory record, all internally consistent.
func buildTestZIP(name string, content []byte) []byte {
	crc := crc32PNGCompat(content)

	local := make([]byte, 0, 30+len(name)+len(content))
	local = append(local, 0x50, 0x4B, 0x03, 0x04) // local file header signature
	local = le16(local, 20)                       // version needed
	local = le16(local, 0)                         // flags
	local = le16(local, 0)                         // compression: stored
	local = le16(local, 0)                         // mod time
	local = le16(local, 0)                         // mod date
	local = le32(local, crc)
	local = le32(local, uint32(len(content)))
	local = le32(local, uint32(len(content)))
	local = le16(local, uint16(len(name)))
	local = le16(local, 0) // extra length
	local = append(local, name...)
	local = append(local, content...)

	centralOffset := uint32(0)
	central := make([]byte, 0, 46+len(name))
	central = append(central, 0x50, 0x4B, 0x01, 0x02) // central directory signature
	central = le16(central, 20)                       // version made by
	central = le16(central, 20)                       // version needed
	central = le16(central, 0)                         // flags
	central = le16(central, 0)                         // compression
	central = le16(central, 0)                         // mod time
	central = le16(central, 0)                         // mod date
	central = le32(central, crc)
	central = le32(central, uint32(len(content)))
	central = le32(central, uint32(len(content)))
	central = le16(central, uint16(len(name)))
	central = le16(central, 0) // extra length
	central = le16(central, 0) // comment length
	central = le16(central, 0) // disk number start
	central = le16(central, 0) // internal attrs
	central = le32(central, 0) // external attrs
	central = le32(central, centralOffset)
	central = append(central, name...)

	out := make([]byte, 0, len(local)+len(central)+22)
	out = append(out, local...)
	centralStart := uint32(len(out))
	out = append(out, central...)

	eocd := make([]byte, 0, 22)
	eocd = append(eocd, 0x50, 0x4B, 0x05, 0x06)
	eocd = le16(eocd, 0) // disk number
	eocd = le16(eocd, 0) // disk with central directory
	eocd = le16(eocd, 1) // entries on this disk
	eocd = le16(eocd, 1) // total entries
	eocd = le32(eocd, uint32(len(central)))
	eocd = le32(eocd, centralStart)
	eocd = le16(eocd, 0) // comment length
	out = append(out, eocd...)

	return out
}

func le16(buf []byte, v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return append(buf, b...)
}

func le32(buf []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(buf, b...)
}

// crc32PNGCompat computes the same CRC-32 variant ZIP uses (identical
// polynomial/init/final-xor to the PNG CRC); reusing the package's own
// implementation keeps the test fixtures and the production code in step.
func crc32PNGCompat(data []byte) uint32 {
	return crc32PNG(data)
}
