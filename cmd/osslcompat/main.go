// Command osslcompat exposes the OpenSSL compatibility layer on the command
// line: digests with the legacy names, EVP_BytesToKey, `openssl enc` files,
// PEM/DER normalization and ASN.1 attributes.
package main

import (
	"fmt"
	"os"
)

// Build-time variables.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
