package main

import "github.com/alexiusacademia/gopcb/cmd"

func main() {
	cmd.Execute()
}
