// main is the entry point for the bugtrail CLI.
package main

import (
	"github.com/bugtrail/bugtrail/cmd"
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
)

func main() {
	err := cmd.Execute()
	memdb.CloseMemory()
	if perr := cmd.StopProfiling(); perr != nil && err == nil {
		err = perr
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
