package main

import "github.com/fashionops/ordex/cmd/ordex/cmd"

func main() {
	cmd.Execute()
}
