/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

// Command teeto sends requests to the Riot Games API through the rate limited scheduler.
package main

import (
	golog "log"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		golog.SetFlags(0)
		golog.Println(err)
		os.Exit(1)
	}
}
