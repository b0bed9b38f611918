package main

import (
	"flag"
	"fmt"
	"os"

	"voicenotes/cmd"
	"voicenotes/config"
)

func main() {
	var configPath string
	var port string
	flag.StringVar(&configPath, "config", "", "Path to config file directory")
	flag.StringVar(&port, "port", "", "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	app := cmd.NewBuilder(cfg).Build()
	if err := app.Run(); err != nil {
		fmt.Printf("Server exited with error: %v\n", err)
		os.Exit(1)
	}
}
