package main

import "github.com/inkwell-social/inkwell-cli/internal/cmd"

func main() {
	cmd.Execute()
}
