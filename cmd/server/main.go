package main

import (
	"github.com/kgraphrag/backend/internal/config"
	"github.com/kgraphrag/backend/internal/server"
	"github.com/kgraphrag/backend/internal/util"
	"github.com/kgraphrag/backend/pkg/logger"
	"github.com/kgraphrag/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	config.Load()

	server.Init()
}
