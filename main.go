// Package main is the entry point for the leaguestats CLI, which classifies
// StarCraft II league match records and compiles the season statistics.
package main

import "github.com/pable/go-league-stats/cmd"

func main() {
	cmd.Execute()
}
