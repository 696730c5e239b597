package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Layouts the server clock may come back in. Postgres timestamps arrive
// through database/sql as RFC 3339; sqlite returns the bare literal.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// CurrentTimestamp reads the database server's clock. Every reservation
// deadline is minted from and compared against this clock; the application
// clock never decides expiry.
func CurrentTimestamp(ctx context.Context, conn *gorm.DB) (time.Time, error) {
	var raw string
	if err := conn.WithContext(ctx).Raw("SELECT " + Now).Scan(&raw).Error; err != nil {
		return time.Time{}, err
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized server timestamp %q", raw)
}
