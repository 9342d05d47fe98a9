package base

import "fmt"

// Pack appends count elements of dtype, starting at byte offset displ of src, to dst.
func Pack(dst []byte, src []byte, displ, count int, dtype DataType) ([]byte, error) {
	n, err := extent(len(src), displ, count, dtype)
	if err != nil {
		return dst, fmt.Errorf("pack: %v", err)
	}
	return append(dst, src[displ:displ+n]...), nil
}

// Unpack copies count elements of dtype from the head of src into dst at byte offset
// displ, and returns the number of bytes consumed.
func Unpack(dst []byte, displ int, src []byte, count int, dtype DataType) (int, error) {
	n, err := extent(len(dst), displ, count, dtype)
	if err != nil {
		return 0, fmt.Errorf("unpack: %v", err)
	}
	if len(src) < n {
		return 0, fmt.Errorf("unpack: short input, %d < %d bytes", len(src), n)
	}
	copy(dst[displ:displ+n], src[:n])
	return n, nil
}

// PackSize returns the packed byte size of count elements of dtype.
func PackSize(count int, dtype DataType) int {
	return count * dtype.Size()
}

func extent(bufLen, displ, count int, dtype DataType) (int, error) {
	if !dtype.Valid() {
		return 0, fmt.Errorf("invalid data type %s", dtype)
	}
	if count < 0 || displ < 0 {
		return 0, fmt.Errorf("negative count %d or displacement %d", count, displ)
	}
	n := count * dtype.Size()
	if displ+n > bufLen {
		return 0, fmt.Errorf("[%d, %d) out of buffer of %d bytes", displ, displ+n, bufLen)
	}
	return n, nil
}
