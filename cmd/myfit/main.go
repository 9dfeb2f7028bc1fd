package main

import "github.com/terraincognita07/myfit/internal/cli"

func main() {
	cli.Execute()
}
