package main

import "journal/cmd"

func main() {
	cmd.Execute()
}
