package main

import "github.com/soundfolio/player/cmd"

func main() {
	cmd.Execute()
}
