package main

import "github.com/kirksw/orgscope/cmd"

func main() {
	cmd.Execute()
}
