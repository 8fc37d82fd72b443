package main

import "github.com/httpfn/httpfn/cmd/httpfn/cmd"

func main() {
	cmd.Execute()
}
