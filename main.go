package main

import "github.com/mj1618/arena-access/cmd"

func main() {
	cmd.Execute()
}
