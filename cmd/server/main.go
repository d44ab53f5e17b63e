package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/carbontrack/internal/server"
	"github.com/dmitrijs2005/carbontrack/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
