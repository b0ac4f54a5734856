// Command irt is the thin entry point for the irt CLI, modeled on the
// teacher's cmd/inmap/main.go: all of the real command-tree construction
// lives in rtutil, main only executes the root command.
package main

import (
	"fmt"
	"os"

	"github.com/fastrt/irt/rtutil"
)

func main() {
	cfg := rtutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
