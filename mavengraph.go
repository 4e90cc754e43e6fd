package main

import (
	"github.com/cobalt-cloud/mavengraph/cmd"
	"github.com/cobalt-cloud/mavengraph/pkg/env"
	"github.com/cobalt-cloud/mavengraph/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("mavengraph failure", "error", err)
	}
}
