package dbclient

import (
	"strings"

	_ "github.com/lib/pq"
)

func init() {
	registerDriver("postgres", "postgres", quoteDoubled)
}

// quoteDoubled is ANSI identifier quoting, shared with sqlite.
func quoteDoubled(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
