package main

import "github.com/xvierd/taskpulse/cmd"

func main() {
	cmd.Execute()
}
