package main

import "github.com/rosterly/roster-management/cmd"

func main() {
	cmd.Execute()
}
