package main

import "github.com/tubegrab/tubegrab/cmd"

func main() {
	cmd.Execute()
}
