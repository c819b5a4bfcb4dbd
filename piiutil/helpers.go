package piiutil

const (
	shortDigitCountThreshold = 4
	keepShortDigits          = 1
	keepLongDigits           = 4
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// maskDigitsKeepLast4Or1 masks digits in place and keeps:
//   - 1 last digit when total digits <= 4
//   - 4 last digits when total digits > 4
//
// It returns false when there are no digits at all.
func maskDigitsKeepLast4Or1(b []byte) bool {
	total := 0
	for _, c := range b {
		if isDigit(c) {
			total++
		}
	}
	if total == 0 {
		return false
	}

	keep := keepLongDigits
	if total <= shortDigitCountThreshold {
		keep = keepShortDigits
	}

	seen := 0
	for i := len(b) - 1; i >= 0; i-- {
		if isDigit(b[i]) {
			seen++
			if seen > keep {
				b[i] = '*'
			}
		}
	}
	return true
}

// maskAllKeepLast masks every byte except the last keep ones.
func maskAllKeepLast(b []byte, keep int) {
	if keep < 1 {
		keep = 1
	}
	for i := 0; i < len(b)-keep; i++ {
		b[i] = '*'
	}
}
