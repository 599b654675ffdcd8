//go:build rp2040 || rp2350

package strconvx

// Allocation-free decimal formatting for MCU builds. Signature parity with
// the host variant; only the 'f' notation subset needed by the data path.

func AppendUint(dst []byte, u uint64) []byte {
	if u == 0 {
		return append(dst, '0')
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return append(dst, buf[i:]...)
}

func AppendInt(dst []byte, i int64) []byte {
	if i < 0 {
		dst = append(dst, '-')
		i = -i
	}
	return AppendUint(dst, uint64(i))
}

// AppendFloat appends f in fixed 'f' notation with prec fractional digits.
// Round-half-up on the last digit, with carry into the integer part.
func AppendFloat(dst []byte, f float64, prec int) []byte {
	if f != f { // NaN
		return append(dst, "NaN"...)
	}
	if f < 0 {
		dst = append(dst, '-')
		f = -f
	}
	if prec < 0 {
		prec = 6
	}
	intPart := uint64(f)
	frac := f - float64(intPart)

	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	fracN := uint64(frac*float64(pow) + 0.5)
	if fracN >= pow { // rounding carried over, e.g. 1.9999 at prec 2
		fracN = 0
		intPart++
	}

	dst = AppendUint(dst, intPart)
	if prec == 0 {
		return dst
	}
	dst = append(dst, '.')
	// Zero-pad the fractional digits to prec width.
	div := pow / 10
	for div > 0 {
		dst = append(dst, byte('0'+(fracN/div)%10))
		div /= 10
	}
	return dst
}

func Itoa(i int) string { return string(AppendInt(nil, int64(i))) }

func Atoi(s string) (int, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}
	if i == len(s) {
		return 0, parseError{}
	}
	n := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, parseError{}
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }
