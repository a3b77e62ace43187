package main

import "github.com/crimson-sun/langdetect/internal/cli"

func main() {
	cli.Execute()
}
