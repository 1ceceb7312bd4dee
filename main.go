package main

import "github.com/notargets/rascfd/cmd"

func main() {
	cmd.Execute()
}
