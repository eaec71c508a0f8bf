package main

import "github.com/eslsoft/wordpicker/cmd"

func main() {
	cmd.Execute()
}
