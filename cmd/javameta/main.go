package main

import "github.com/mvp-joe/javameta/internal/cli"

func main() {
	cli.Execute()
}
