package main

import (
	"github.com/Coobeliues/vector-search/cmd"
)

func main() {
	cmd.Execute()
}
