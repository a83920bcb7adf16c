package main

import "github.com/CosmoTheDev/rekt-terminal/cmd"

func main() {
	cmd.Execute()
}
