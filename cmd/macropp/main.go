package main

import "macropp/pkg/lib"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		lib.Exit(err)
	}
}
