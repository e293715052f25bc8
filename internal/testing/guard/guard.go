// Package guard forces test mode for packages that import it, keeping
// entrypoints from starting real runtimes under `go test`.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("COTIZAMED_TEST_MODE") == "" {
			_ = os.Setenv("COTIZAMED_TEST_MODE", "1")
		}
	})
}
