package main

import (
	"log"
	"os"

	"cardmasters-game/internal/database"
	"cardmasters-game/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log.Println("Starting Card Masters server...")

	db := database.New()
	defer db.Close()

	hub := server.NewHub(&db)
	go hub.Run()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	server.RegisterRoutes(e, hub, &db)
	e.Static("/", "web/static")

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}
	e.Logger.Fatal(e.Start(":" + httpPort))
}
