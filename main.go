package main

import "plcc/cmd"

func main() {
	cmd.Execute()
}
