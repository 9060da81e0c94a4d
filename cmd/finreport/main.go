package main

import "financial-report/internal/cli"

func main() {
	cli.Execute()
}
