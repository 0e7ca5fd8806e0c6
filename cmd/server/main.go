package main

import (
	"log"
	"time"

	"officeflow_app_go/config"
	"officeflow_app_go/db"
	"officeflow_app_go/handlers"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.Contact{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Quote{},
		&models.QuoteLineItem{},
		&models.DocumentTemplate{},
		&models.InvoiceSettings{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 or local)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Uploaded files when running on local storage
	e.Static("/uploads", cfg.UploadDir)

	// All API routes are organization-scoped
	api := e.Group("/api")
	api.Use(middleware.RequireOrganization())
	{
		api.GET("/organization", handlers.GetOrganizationHandler)
		api.PUT("/organization", handlers.UpdateOrganizationHandler)
		api.POST("/organization/logo", handlers.UploadLogoHandler)
		api.DELETE("/organization/logo", handlers.DeleteLogoHandler)
		api.GET("/organization/settings", handlers.GetInvoiceSettingsHandler)
		api.PUT("/organization/settings", handlers.UpdateInvoiceSettingsHandler)

		api.GET("/contacts", handlers.ListContactsHandler)
		api.POST("/contacts", handlers.CreateContactHandler)
		api.GET("/contacts/:id", handlers.GetContactHandler)
		api.PUT("/contacts/:id", handlers.UpdateContactHandler)
		api.DELETE("/contacts/:id", handlers.DeleteContactHandler)

		api.GET("/invoices", handlers.ListInvoicesHandler)
		api.POST("/invoices", handlers.CreateInvoiceHandler)
		api.GET("/invoices/export", handlers.ExportInvoicesHandler)
		api.GET("/invoices/:id", handlers.GetInvoiceHandler)
		api.PUT("/invoices/:id", handlers.UpdateInvoiceHandler)
		api.DELETE("/invoices/:id", handlers.DeleteInvoiceHandler)
		api.GET("/invoices/:id/preview", handlers.PreviewInvoiceHandler)
		api.GET("/invoices/:id/pdf", handlers.DownloadInvoicePDFHandler)
		api.POST("/invoices/:id/send", handlers.SendInvoiceHandler)

		api.GET("/quotes", handlers.ListQuotesHandler)
		api.POST("/quotes", handlers.CreateQuoteHandler)
		api.GET("/quotes/export", handlers.ExportQuotesHandler)
		api.GET("/quotes/:id", handlers.GetQuoteHandler)
		api.PUT("/quotes/:id", handlers.UpdateQuoteHandler)
		api.DELETE("/quotes/:id", handlers.DeleteQuoteHandler)
		api.GET("/quotes/:id/preview", handlers.PreviewQuoteHandler)
		api.GET("/quotes/:id/pdf", handlers.DownloadQuotePDFHandler)
		api.POST("/quotes/:id/send", handlers.SendQuoteHandler)
		api.POST("/quotes/:id/convert", handlers.ConvertQuoteToInvoiceHandler)

		api.GET("/templates", handlers.ListTemplatesHandler)
		api.POST("/templates", handlers.CreateTemplateHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler)

		api.GET("/layouts", handlers.GetLayoutsHandler)
		api.GET("/layouts/:id/css", handlers.GetLayoutCSSHandler)
		api.GET("/variables", handlers.GetVariablesHandler)
		api.POST("/documents/totals", handlers.CalculateTotalsHandler)
		api.POST("/documents/preview", handlers.PreviewDocumentHandler)
		api.POST("/documents/pdf", handlers.GenerateDocumentPDFHandler)
	}

	// Periodically flip sent invoices past their due date to overdue
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if updated, err := services.MarkOverdueInvoices(db.DB, time.Now()); err != nil {
				log.Printf("Error marking overdue invoices: %v", err)
			} else if updated > 0 {
				log.Printf("Marked %d invoices as overdue", updated)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
