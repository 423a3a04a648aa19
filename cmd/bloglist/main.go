package main

import (
	"github.com/rcliao/bloglist/internal/cli"
)

func main() {
	cli.Execute()
}
