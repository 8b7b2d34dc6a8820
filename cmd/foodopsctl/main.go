// Command foodopsctl inspects and repairs the petty cash ledger offline.
package main

import (
	"os"

	"github.com/mamadbah2/foodops/cmd/foodopsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
