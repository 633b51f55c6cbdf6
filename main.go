package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/junglesafari/safaridesk/pkg/cli"
)

var version = "dev"

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
