// main is the entry point of the vcx CLI.
package main

import (
	"github.com/huangsam/vcxscore/cmd"
	"github.com/huangsam/vcxscore/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
