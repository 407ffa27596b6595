// Command hash-password prints bcrypt hashes for seeding user documents by hand.
//
//	hash-password -cost 12 secret1 secret2
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: hash-password [-cost N] password...")
		return 2
	}

	hasher := auth.NewBcryptHasher(*cost)
	status := 0
	for _, password := range fs.Args() {
		if len(password) > domain.MaxPasswordBytes {
			fmt.Fprintf(stderr, "skipping password of %d bytes: limit is %d\n", len(password), domain.MaxPasswordBytes)
			status = 1
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(stderr, "hash failed: %v\n", err)
			status = 1
			continue
		}
		fmt.Fprintln(stdout, hash)
	}
	return status
}
