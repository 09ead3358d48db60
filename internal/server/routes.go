package server

import (
	"database/sql"
	"net/http"

	"cardmasters-game/internal/database"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes attaches the match-history REST API and the WebSocket
// endpoint to the echo instance.
func RegisterRoutes(e *echo.Echo, hub *Hub, db *database.Service) {
	e.GET("/ws", func(c echo.Context) error {
		ServeWs(hub, c.Response(), c.Request())
		return nil
	})

	e.GET("/api/results", func(c echo.Context) error {
		return GetResultsHandler(db, c)
	})

	e.GET("/api/results/player/:name", func(c echo.Context) error {
		return GetResultsByPlayerHandler(db, c)
	})
}

func GetResultsByPlayerHandler(db *database.Service, c echo.Context) error {
	player := c.Param("name")
	if player == "" {
		return c.String(http.StatusBadRequest, "Player name is required")
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.String(http.StatusNotFound, "No results found for player")
		}
		return c.String(http.StatusInternalServerError, "Failed to fetch results")
	}

	return c.JSON(http.StatusOK, results)
}

func GetResultsHandler(db *database.Service, c echo.Context) error {
	results, err := db.GetAll()
	if err != nil {
		return c.String(http.StatusInternalServerError, "Failed to fetch results")
	}

	return c.JSON(http.StatusOK, results)
}
