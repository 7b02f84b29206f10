package utils

import (
	"os"
	"strings"
)

// SafeEnv returns the environment variable value for key, or fallback if empty.
func SafeEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// ResolveLocale normalizes a configured locale ("es-EC", "EN") to one of
// the supported base languages, falling back to def.
func ResolveLocale(lang string, supported []string, def string) string {
	sup := map[string]struct{}{}
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}
	l := strings.ToLower(strings.TrimSpace(lang))
	if _, ok := sup[l]; ok {
		return l
	}
	if i := strings.Index(l, "-"); i > 0 {
		if _, ok := sup[l[:i]]; ok {
			return l[:i]
		}
	}
	return def
}
