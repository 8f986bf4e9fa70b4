package main

import "github.com/user/recstore/internal/cli"

func main() {
	cli.Execute()
}
