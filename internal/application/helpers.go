package application

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// generateCode draws codeLength characters from codeAlphabet. Bytes above the
// largest multiple of the alphabet size are rejected to keep the draw uniform.
func generateCode() (string, error) {
	const limit = 256 - 256%len(codeAlphabet)

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)
	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}
	return string(out), nil
}

// NormalizeCode trims and uppercases a code as typed by a player.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func clampAmount(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	return amount
}

func clampPullLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPullLimit
	case limit > MaxPullLimit:
		return MaxPullLimit
	default:
		return limit
	}
}

// isNumericID reports whether s looks like a Roblox user id rather than a username.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
