package interp

// adjbuf returns buf with room for at least minlen bytes. Capacity grows
// geometrically and is rounded up to a multiple of quantum; the contents
// and length of buf, which callers use as their write cursor, are kept.
func adjbuf(buf []byte, minlen, quantum int) []byte {
	if minlen <= cap(buf) {
		return buf
	}
	size := 2 * cap(buf)
	if size < minlen {
		size = minlen
	}
	if quantum > 0 {
		if rem := size % quantum; rem != 0 {
			size += quantum - rem
		}
	}
	nb := make([]byte, len(buf), size)
	copy(nb, buf)
	return nb
}
