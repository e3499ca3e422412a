package main

import "foreman/cmd"

func main() {
	cmd.Execute()
}
