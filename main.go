package main

import "github.com/0w0mewo/eyeballr-cli/cmd"

func main() {
	cmd.Execute()
}
