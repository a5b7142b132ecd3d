package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/admincli"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := admincli.NewApp(cfg, os.Stdin, os.Stdout)

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
