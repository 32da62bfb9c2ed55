package main

import (
	"LyricRec/cmd"
)

func main() {
	cmd.Execute()
}
