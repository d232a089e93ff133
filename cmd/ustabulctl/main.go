package main

import "github.com/garnizeh/ustabul/cmd/ustabulctl/commands"

func main() {
	commands.Execute()
}
