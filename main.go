package main

import (
	"log"

	"github.com/amrops/fleetconsole/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
