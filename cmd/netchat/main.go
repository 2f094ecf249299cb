package main

import "github.com/diogo/netchat/internal/commands"

func main() {
	commands.Execute()
}
