package main

import "finmodel/cmd"

func main() {
	cmd.Execute()
}
