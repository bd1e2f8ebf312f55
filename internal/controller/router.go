package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
)

// NewApp wires the REST and websocket routes for gameService.
func NewApp(gameService *service.GameService, log *zap.SugaredLogger, allowedOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// A panic in the rules is an invariant violation; it is logged and answered
	// with 500, never swallowed.
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Errorw("panic while handling request", "path", c.Path(), "panic", fmt.Sprint(e))
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(middleware.RequestLogger(log))

	gameController := NewGameController(gameService, log)
	wsController := NewWebSocketController(gameService, log)

	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         strings.Split(allowedOrigins, ","),
	}))

	gameController.Register(app.Group("/api/game"))

	return app
}
