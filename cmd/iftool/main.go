package main

import "github.com/cameronsjo/iftool/internal/cmd"

func main() {
	cmd.Execute()
}
