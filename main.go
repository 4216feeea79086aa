package main

import "mccwk.com/rl/cmd"

func main() {
	cmd.Execute()
}
