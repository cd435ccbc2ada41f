package ai

import "unicode/utf16"

// Seed hashes a theme into a non-negative wallpaper seed. It is the classic
// 31-multiplier string hash over UTF-16 code units with 32-bit wraparound,
// then the absolute value taken in 64 bits so math.MinInt32 stays positive.
func Seed(theme string) int64 {
	var h int32
	for _, u := range utf16.Encode([]rune(theme)) {
		h = h*31 + int32(u)
	}
	s := int64(h)
	if s < 0 {
		s = -s
	}
	return s
}
