package main

import "expensedash/internal/cli"

func main() {
	cli.Execute()
}
