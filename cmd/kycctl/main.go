// Command kycctl works with KYC payloads outside the browser form: it posts a
// saved payload file to the intake endpoint and prints the reference option
// lists the form validates against.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
