package descriptor

import (
	"fmt"
	"strings"
)

// sixBitToASCII is the ICAO Annex 10 Vol IV character set used by ASTERIX
// "IA-5" / 6-bit text fields (target identification, callsigns, ...): each
// 6-bit code indexes this 64-entry table.
var sixBitToASCII = []byte("#ABCDEFGHIJKLMNOPQRSTUVWXYZ##### ###############0123456789######")

func signExtend(raw uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(raw)
	}
	signBit := uint64(1) << uint(width-1)
	if raw&signBit != 0 {
		return int64(raw) - int64(signBit<<1)
	}
	return int64(raw)
}

func hexString(raw uint64, width int) string {
	nibbles := (width + 3) / 4
	return fmt.Sprintf("%0*X", nibbles, raw)
}

// octalDigits splits raw into 3-bit groups, most significant group first,
// rendering each as one octal digit. This generalizes the Mode-3/A code
// digit extraction (four 3-bit A/B/C/D groups) to any bit width.
func octalDigits(raw uint64, width int) string {
	nDigits := (width + 2) / 3
	var sb strings.Builder
	for i := nDigits - 1; i >= 0; i-- {
		digit := (raw >> uint(i*3)) & 0x7
		sb.WriteByte('0' + byte(digit))
	}
	return sb.String()
}

// asciiFromBits decodes width bits as a sequence of 6-bit IA-5 characters,
// most significant character first.
func asciiFromBits(raw uint64, width int) string {
	nChars := width / 6
	var sb strings.Builder
	for i := nChars - 1; i >= 0; i-- {
		code := (raw >> uint(i*6)) & 0x3F
		if int(code) < len(sixBitToASCII) {
			sb.WriteByte(sixBitToASCII[code])
		}
	}
	return strings.TrimRight(sb.String(), " ")
}
