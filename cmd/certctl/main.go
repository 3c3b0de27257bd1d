package main

import "fenix-certificates/cmd/certctl/commands"

func main() {
	commands.Execute()
}
