package main

import (
	"log"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(0)
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}
