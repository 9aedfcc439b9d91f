package main

import "github.com/coffersTech/logcrunch/cmd/logcrunch/cmd"

func main() {
	cmd.Execute()
}
