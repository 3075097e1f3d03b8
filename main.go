package main

import "bookclub/cmd"

func main() {
	cmd.Execute()
}
