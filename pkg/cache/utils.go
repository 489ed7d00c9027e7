package cache

import (
	"fmt"
	"strings"
)

// GenerateKey creates a cache key "<operation>:<ID>" with the ID upper-cased.
func GenerateKey(operation string, id string) string {
	return fmt.Sprintf("%s:%s", operation, strings.ToUpper(strings.TrimSpace(id)))
}

// SuffixPattern matches every operation cached for id ("*:PETR4").
func SuffixPattern(id string) string {
	return "*:" + strings.ToUpper(strings.TrimSpace(id))
}
