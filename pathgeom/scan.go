package pathgeom

import "strconv"

var pathCommandSet = map[byte]bool{
	'M': true, 'm': true, 'L': true, 'l': true, 'H': true, 'h': true,
	'V': true, 'v': true, 'C': true, 'c': true, 'S': true, 's': true,
	'Q': true, 'q': true, 'T': true, 't': true, 'A': true, 'a': true,
	'Z': true, 'z': true,
}

// extractCommands returns every path command letter in d, in order.
func extractCommands(d string) []byte {
	var out []byte
	for i := 0; i < len(d); i++ {
		if pathCommandSet[d[i]] {
			out = append(out, d[i])
		}
	}
	return out
}

// extractNumbers scans every numeric literal out of d, tolerating the
// comma/whitespace-free runs SVG path data allows (e.g. "100-50" is two
// numbers) and scientific notation.
func extractNumbers(d string) []float64 {
	var nums []float64
	var buf []byte
	flush := func() {
		if len(buf) == 0 {
			return
		}
		if f, err := strconv.ParseFloat(string(buf), 64); err == nil {
			nums = append(nums, f)
		}
		buf = buf[:0]
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c >= '0' && c <= '9', c == '.':
			buf = append(buf, c)
		case c == '-' && (len(buf) == 0 || buf[len(buf)-1] == 'e'):
			buf = append(buf, c)
		case c == 'e' || c == 'E':
			buf = append(buf, 'e')
		default:
			flush()
			if c == '-' {
				buf = append(buf, c)
			}
		}
	}
	flush()
	return nums
}
