// Command pricectl runs the pricing calculators offline.
package main

import (
	"os"

	"github.com/noah-isme/backend-roti/cmd/pricectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
