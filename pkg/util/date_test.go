package util

import (
	"testing"
	"time"
)

func TestHourBucket(t *testing.T) {
	ts := time.Date(2026, 10, 10, 10, 59, 59, 0, time.UTC)
	if got := HourBucket(ts); got != "2026-10-10-10" {
		t.Fatalf("unexpected bucket %q", got)
	}
}

func TestHourBucketNormalizesZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2026, 10, 10, 3, 15, 0, 0, loc)
	if got := HourBucket(ts); got != "2026-10-09-21" {
		t.Fatalf("expected UTC bucket, got %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney("$", 65000.129); got != "$65000.13" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatMoney("", 1.2345); got != "1.23" {
		t.Fatalf("unexpected %q", got)
	}
}
