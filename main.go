package main

import "github.com/parisneo/requmancer/cmd"

func main() {
	cmd.Execute()
}
