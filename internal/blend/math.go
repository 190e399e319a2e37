package blend

// div255 divides x by 255 using a shift approximation.
//
// Formula: (x + 255) >> 8
//
// The result can be one higher than x/255, but it is exact at 0 and
// 255*255, so opaque and transparent inputs stay exact.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// div255Exact divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// mulDiv255Exact multiplies two bytes and divides by 255 exactly.
func mulDiv255Exact(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}

// addDiv255 adds two bytes and clamps to 255.
func addDiv255(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerp255 moves from d towards s by t/255.
func lerp255(d, s, t byte) byte {
	return addDiv255(mulDiv255Exact(s, t), mulDiv255Exact(d, 255-t))
}
