package ratelimit

import (
	"math"
	"strconv"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// sem notação científica para valores comuns
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// retryAfterSeconds arredonda para cima: "Retry-After: 0" faria o cliente repetir na hora.
func retryAfterSeconds(secs float64) string {
	n := int(math.Ceil(secs))
	if n < 1 {
		n = 1
	}
	return formatInt(n)
}
