package dbclient

import (
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func init() {
	registerDriver("mysql", "mysql", func(ident string) string {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	})
}
