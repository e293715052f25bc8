package app

import (
	"testing"

	_ "github.com/cotizamed/cotizamed/internal/testing/guard"
)

func TestInTestMode(t *testing.T) {
	t.Setenv("COTIZAMED_TEST_MODE", "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("expected test mode to be detected")
	}

	t.Setenv("COTIZAMED_TEST_MODE", "")
	RefreshTestMode()
	if InTestMode() {
		t.Fatal("expected test mode to be cleared after refresh")
	}
}
