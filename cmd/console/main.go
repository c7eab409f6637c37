package main

import (
	"flag"
	"log"

	"github.com/likesweetie/zed-f9r-parser/internal/app"
	"github.com/likesweetie/zed-f9r-parser/internal/config"
)

func main() {
	configPath := flag.String("config", "zedf9r.yaml", "path to configuration file")
	flag.Parse()

	log.Println("starting zed-f9r console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
