// Package main provides the docmapper CLI.
//
// docmapper applies a client's ordered mapping rules to JSON documents:
//
//	docmapper transform --rules rules.yaml --input order.json
//	docmapper validate --rules rules.yaml
//	docmapper describe --rules rules.yaml
//	docmapper suggest --source sample-in.json --target sample-out.json
//	docmapper client create acme
//	docmapper rule import --client <id> --rules rules.yaml
//
// Settings come from DOCMAPPER_* environment variables; flags override them.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
