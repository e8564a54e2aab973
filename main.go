package main

import "github.com/maulanaar/labtrack/cmd"

func main() {
	cmd.Execute()
}
