// Command octo_cl is the cl.exe cache shim: installed on PATH ahead of
// the real cl.exe (or invoked as "octo_cl cl.exe <args...>" directly), it
// classifies the invocation, serves a cache hit, or compiles and caches a
// miss, matching cl.exe's own observable behavior byte for byte either
// way.
package main

import (
	"os"

	"github.com/octobuild/octobuild/cmd/shim"
)

func main() {
	os.Exit(shim.Run(os.Args))
}
