package main

import "github.com/vaughan-dsouza/quill/cmd/quill/commands"

func main() {
	commands.Execute()
}
