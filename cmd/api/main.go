package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"photogallery/internal/config"
	"photogallery/internal/middleware"
	"photogallery/internal/modules/category"
	"photogallery/internal/modules/media"
	"photogallery/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	layout := storage.NewLayout(cfg.UploadRoot)

	generator := media.NewGenerator(layout, cfg.ImageQuality, cfg.ThumbnailQuality)
	mediaService := media.NewService(layout, generator)
	mediaHandler := media.NewHandler(mediaService)

	categoryService := category.NewService(layout)
	categoryHandler := category.NewHandler(categoryService)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	v1 := r.Group("/api/v1")
	{
		categoryHandler.RegisterRoutes(v1)
		mediaHandler.RegisterRoutes(v1)
	}

	log.Printf("gallery listening on :%s, upload root %q", cfg.Port, cfg.UploadRoot)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
