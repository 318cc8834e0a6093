package dbclient

import (
	_ "modernc.org/sqlite"
)

// sqlite is here for local files and tests; the warehouse package owns the
// destination store, this driver only serves the database source format.
func init() {
	registerDriver("sqlite", "sqlite", quoteDoubled)
}
