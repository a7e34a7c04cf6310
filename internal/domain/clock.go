package domain

import "time"

// Now is the clock services stamp rows with. Stored timestamps are UTC so
// text-encoded columns on SQLite compare in instant order.
func Now() time.Time { return time.Now().UTC() }
