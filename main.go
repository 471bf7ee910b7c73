package main

import "localrag/cmd"

func main() {
	cmd.Execute()
}
