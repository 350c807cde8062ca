package polyglot

// writeBE writes the unsigned integer v, width bits wide (16 or 32), into
// buf starting at index i, most-significant byte first, at i, i+1, ...
func writeBE(buf []byte, i int, v uint64, width int) {
	bits := width
	for bits > 0 {
		bits -= 8
		buf[i] = byte(v >> bits)
		i++
	}
}

// writeLE writes the unsigned integer v, width bits wide (16 or 32), into
// buf most-significant byte first starting at i and moving toward lower
// addresses (i, i-1, ...). Callers pass the index of the field's LAST
// byte: the high-address end holds the MSB, matching little-endian byte
// order where the low-address end holds the LSB.
func writeLE(buf []byte, i int, v uint64, width int) {
	bits := width
	for bits > 0 {
		bits -= 8
		buf[i] = byte(v >> bits)
		i--
	}
}
