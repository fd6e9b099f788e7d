package main

import "github.com/okozlov/quill/cmd"

func main() {
	cmd.Execute()
}
