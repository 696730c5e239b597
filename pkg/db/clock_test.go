package db

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCurrentTimestampReadsServerClock(t *testing.T) {
	t.Parallel()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	now, err := CurrentTimestamp(context.Background(), conn)
	if err != nil {
		t.Fatalf("read server clock: %v", err)
	}
	if now.IsZero() {
		t.Fatal("expected a non-zero timestamp")
	}
	if drift := time.Since(now); drift > time.Minute || drift < -time.Minute {
		t.Fatalf("server clock drifted %s from local clock", drift)
	}
}
