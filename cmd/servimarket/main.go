package main

import "servimarket/internal/cli"

func main() {
	cli.Execute()
}
