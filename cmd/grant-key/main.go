// Package main provides a one-shot utility for layout grant key generation.
//
// It emits the asymmetric keypair used to authorize lane layout replacements.
package main

import (
	"os"

	"github.com/laneworks/laneworks/internal/platform/config"
	"github.com/laneworks/laneworks/internal/tools/grantkey"
)

func main() {
	if err := grantkey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate layout grant key: %v", err)
	}
}
