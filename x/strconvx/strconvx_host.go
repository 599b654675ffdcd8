//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Host builds delegate straight to strconv so behaviour is canonical.

func AppendUint(dst []byte, u uint64) []byte { return strconv.AppendUint(dst, u, 10) }

func AppendInt(dst []byte, i int64) []byte { return strconv.AppendInt(dst, i, 10) }

// AppendFloat appends f in fixed 'f' notation with prec fractional digits.
// Values originate as float32 readings, hence bitSize 32.
func AppendFloat(dst []byte, f float64, prec int) []byte {
	return strconv.AppendFloat(dst, f, 'f', prec, 32)
}

func Itoa(i int) string { return strconv.Itoa(i) }

func Atoi(s string) (int, error) { return strconv.Atoi(s) }
