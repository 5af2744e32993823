package main

import "punchclock/cmd/client/cmd"

func main() {
	cmd.Execute()
}
