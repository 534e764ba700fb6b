package main

import "github.com/KaramelBytes/appscope-cli/cmd"

func main() {
	cmd.Execute()
}
