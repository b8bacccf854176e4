package main

import cmd "github.com/kerbaras/comicenc/cmd/comicenc"

func main() {
	cmd.Execute()
}
