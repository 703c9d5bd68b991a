// Command asm24 is the assembler's command-line entry point:
// `asm24 <basename1> [<basename2> ...]` assembles each named source
// file in turn.
package main

import (
	"os"

	"github.com/arnediff/asm24/internal/cli"
)

func main() {
	a := cli.New()
	os.Exit(a.Run(os.Args[1:]))
}
