package config

import (
	"testing"
	"time"

	kit "missionsync/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	t.Setenv("CORE_PG_URL", "postgres://db")
	c := New().Prefix("CORE_").Prefix("PG_")
	if got := c.MustString("URL"); got != "postgres://db" {
		t.Fatalf("MustString = %q", got)
	}
}

func TestMustString_BlankPanics(t *testing.T) {
	t.Setenv("CORE_ARCHIVE_URL", "   ")
	c := New().Prefix("CORE_")
	kit.MustPanic(t, func() { c.MustString("ARCHIVE_URL") })
	kit.MustPanic(t, func() { c.MustString("NOT_SET") })
}

func TestMay(t *testing.T) {
	c := New().Prefix("SYNC_")
	t.Setenv("SYNC_LIMIT", " 25 ")
	t.Setenv("SYNC_DRY_RUN", "true")
	t.Setenv("SYNC_TIMEOUT", "90s")
	t.Setenv("SYNC_SOURCE", " cruise ")

	if got := c.MayInt("LIMIT", 1); got != 25 {
		t.Fatalf("MayInt = %d", got)
	}
	if !c.MayBool("DRY_RUN", false) {
		t.Fatal("MayBool = false")
	}
	if got := c.MayDuration("TIMEOUT", time.Second); got != 90*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayString("SOURCE", "x"); got != "cruise" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "x"); got != "x" {
		t.Fatalf("MayString default = %q", got)
	}
}

func TestMay_InvalidFallsBack(t *testing.T) {
	c := New().Prefix("SYNC_")
	t.Setenv("SYNC_LIMIT", "many")
	t.Setenv("SYNC_DRY_RUN", "perhaps")
	t.Setenv("SYNC_TIMEOUT", "soon")

	if got := c.MayInt("LIMIT", 7); got != 7 {
		t.Fatalf("MayInt = %d, want default", got)
	}
	if !c.MayBool("DRY_RUN", true) {
		t.Fatal("MayBool should keep default")
	}
	if got := c.MayDuration("TIMEOUT", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration = %v, want default", got)
	}
}
