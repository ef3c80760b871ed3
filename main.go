package main

import "curriculum-loader/cmd"

func main() {
	cmd.Execute()
}
