package main

import "github.com/endorses/seqfilter/cmd"

func main() {
	cmd.Execute()
}
