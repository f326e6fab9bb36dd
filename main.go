package main

import "github.com/gmalette/rubymine-configurator/cmd"

func main() {
	cmd.Execute()
}
