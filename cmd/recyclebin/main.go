package main

import "github.com/dmitrymomot/recyclebin/cmd/recyclebin/cmd"

func main() {
	cmd.Execute()
}
