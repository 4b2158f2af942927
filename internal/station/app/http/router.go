// Package http содержит компоненты для HTTP сервера станции.
package http

import (
	"github.com/gofiber/fiber/v3"

	"fieldnotes/internal/station/app/capture"
	"fieldnotes/internal/station/app/http/creators"
	"fieldnotes/internal/station/app/http/media"
	"fieldnotes/internal/station/app/http/middleware"
	"fieldnotes/internal/station/app/http/notes"
	"fieldnotes/internal/station/app/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, notesService *services.NotesService, directory *services.DirectoryService, pipeline *capture.Controller, tempDir string) {
	notesHandler := notes.NewHandler(notesService)
	mediaHandler := media.NewHandler(pipeline, tempDir)
	creatorsHandler := creators.NewHandler(directory)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Маршруты заметок.
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/search", notesHandler.SearchNotes)
	notesRoutes.Post("/", notesHandler.CreateNote)
	notesRoutes.Put("/:note_id", notesHandler.OverwriteNote)
	notesRoutes.Delete("/:note_id", notesHandler.DeleteNote)

	// Прием медиафайлов.
	apiV1.Post("/media", mediaHandler.UploadMedia)

	// Справочник пользователей.
	creatorsRoutes := apiV1.Group("/creators")
	creatorsRoutes.Get("/:uid", creatorsHandler.GetCreator)
	creatorsRoutes.Post("/", creatorsHandler.RegisterCreator)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
