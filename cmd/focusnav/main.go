// Command focusnav classifies focusable elements and computes tab
// sequences of HTML documents for a given browser environment.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/focusnav/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
