package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "nope")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", " 12 ")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 12 {
		t.Fatalf("Int: want=12 got=%d", got)
	}
}

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "90")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration: want=90s got=%s", got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "2m")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 2*time.Minute {
		t.Fatalf("Duration: want=2m got=%s", got)
	}
}

func TestListTrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_LIST", " KNOWS, ,WORKS_WITH ,")
	got := List("ENVUTIL_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "KNOWS" || got[1] != "WORKS_WITH" {
		t.Fatalf("List: got=%v", got)
	}
	if got := List("ENVUTIL_TEST_LIST_UNSET", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("List default: got=%v", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: want=false")
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if !Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: want default true on unknown value")
	}
}
