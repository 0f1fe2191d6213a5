package main

import (
	"github.com/Laisky/game-media-api/cmd"
)

func main() {
	cmd.Execute()
}
