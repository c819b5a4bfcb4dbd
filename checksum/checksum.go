// Package checksum holds the arithmetic shared by VAT check-digit schemes.
package checksum

// WeightedSum returns Σ digits[i]*weights[i] over the shorter of the two slices.
func WeightedSum(digits, weights []int) int {
	n := len(digits)
	if len(weights) < n {
		n = len(weights)
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += digits[i] * weights[i]
	}
	return sum
}

// Sequence returns n consecutive weights starting at from, stepping by step.
func Sequence(from, step, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i*step
	}
	return out
}

// Double is the Luhn double-and-reduce step: the digit sum of 2*d.
func Double(d int) int {
	return d/5 + (2*d)%10
}

// Luhn returns the sum used by Luhn-style schemes. Digits at odd offsets from
// the left (0-based) are doubled.
func Luhn(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 1 {
			sum += Double(d)
			continue
		}
		sum += d
	}
	return sum
}

// Mod11_10 runs the ISO 7064 MOD 11,10 recurrence over digits and returns the
// final product. A number including its check digit is valid when
// (Mod11_10(body) + check) % 10 == 1.
func Mod11_10(digits []int) int {
	product := 10
	for _, d := range digits {
		s := (d + product) % 10
		if s == 0 {
			s = 10
		}
		product = (2 * s) % 11
	}
	return product
}

// Mod returns the decimal number spelled by digits modulo m, without overflow.
func Mod(digits []int, m int) int {
	r := 0
	for _, d := range digits {
		r = (r*10 + d) % m
	}
	return r
}

// PositiveMod returns a mod m in [0, m).
func PositiveMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// Complement returns (m - sum%m) % m, the usual "check = complement" step.
func Complement(sum, m int) int {
	return (m - sum%m) % m
}
