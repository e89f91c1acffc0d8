package main

import "github.com/potatoshell/potsh/cmd"

func main() {
	cmd.Execute()
}
