package main

import "recicleaqui/cmd"

func main() {
	cmd.Execute()
}
