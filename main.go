// Package main is the agentcli entry point.
package main

import "github.com/mouse-blink/agentcli/cmd"

func main() {
	cmd.Execute()
}
