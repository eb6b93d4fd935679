// utilitário pequeno para formatação dos valores numéricos dos headers,
// sem puxar fmt só para isso.

package ratelimit

import (
	"math"
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// formatSeconds arredonda para cima: Retry-After menor que o real faz o
// cliente voltar cedo demais e tomar outro 429.
func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
