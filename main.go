package main

import "extract-mp3/cmd"

func main() {
	cmd.Execute()
}
