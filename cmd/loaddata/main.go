package main

import "github.com/foodgram/backend/cmd/loaddata/commands"

func main() {
	commands.Execute()
}
