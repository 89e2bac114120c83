// Command octo_clang is the clang/gcc cache shim, the Gcc-family
// counterpart of octo_cl: installed on PATH under whichever of
// clang/clang++/gcc/g++/cc/c++ it stands in for.
package main

import (
	"os"

	"github.com/octobuild/octobuild/cmd/shim"
)

func main() {
	os.Exit(shim.Run(os.Args))
}
