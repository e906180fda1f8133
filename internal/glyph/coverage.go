package glyph

// CoverageToAlpha maps a coverage sample in [0, 16] to an 8-bit alpha,
// rounding to nearest. Samples above 16 saturate.
func CoverageToAlpha(c byte) uint8 {
	if c >= CoverageLevels-1 {
		return 255
	}
	const levels = CoverageLevels - 1
	return uint8((255*uint32(c) + levels/2) / levels)
}

// ExpandCoverage converts a FormatGray4 bitmap into tightly packed RGBA of
// exactly width x height pixels. Premultiplied output is (A, A, A, A);
// straight output is white with alpha A.
func ExpandCoverage(src []byte, width, height int, premultiplied bool) []byte {
	stride := Gray4Stride(width)
	dst := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		row := src[y*stride : y*stride+width]
		out := dst[y*width*4 : (y+1)*width*4]
		for x, c := range row {
			a := CoverageToAlpha(c)
			px := out[x*4 : x*4+4]
			if premultiplied {
				px[0], px[1], px[2], px[3] = a, a, a, a
			} else {
				px[0], px[1], px[2], px[3] = 0xff, 0xff, 0xff, a
			}
		}
	}
	return dst
}
