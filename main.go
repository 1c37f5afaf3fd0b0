//go:build windows

package main

import "log"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("error: %+v", err)
	}
}
