package main

import "github.com/revatlas/revatlas/cmd"

func main() {
	cmd.Execute()
}
