package utils

import (
	"bytes"
	"context"
	"geodrive-insight/pkg/logger"
	"runtime"
	"strings"
	"unicode/utf8"
)

// CleanToValidUTF8 drops every byte that is not part of a valid UTF-8 sequence.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return buf.String()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ShouldContinue reports whether ctx is still live and logs the caller when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

// Percent is floor(count*100/total), or 0 when total is 0.
func Percent(count, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(count * 100 / total)
}
