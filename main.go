package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/hollis-dev/shoeboxbackend/config"
	"github.com/hollis-dev/shoeboxbackend/handlers"
	"github.com/hollis-dev/shoeboxbackend/media"
	"github.com/hollis-dev/shoeboxbackend/scanner"
	"github.com/hollis-dev/shoeboxbackend/store"
	"github.com/hollis-dev/shoeboxbackend/watcher"
	"github.com/hollis-dev/shoeboxbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.ThumbnailsPath, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create storage directory %s: %v", cfg.ThumbnailsPath, err)
	}

	noteStore := store.NewNoteStore()
	photoStore := store.NewPhotoStore()

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, map[media.AssetType]string{
		media.AssetTypeThumbnail: config.DefaultThumbnailsSubDir,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	log.Printf("Initializing thumbnail worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	thumbGen := workers.NewThumbnailGenerator(cfg, photoStore, mediaProcessor, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)

	photoScanner, err := scanner.New(cfg.RootDirectory, cfg.ScanCacheSize)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize scanner: %v", err)
	}

	log.Printf("Scanning photos from root: %s", cfg.RootDirectory)
	log.Printf("Storing thumbnails in: %s", cfg.ThumbnailsPath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	noteHandler := &handlers.NoteHandler{Store: noteStore}
	photoHandler := &handlers.PhotoHandler{Store: photoStore}
	albumHandler := &handlers.AlbumHandler{Store: photoStore}
	tagHandler := &handlers.TagHandler{Notes: noteStore, Photos: photoStore}
	scanHandler := &handlers.ScanHandler{Scanner: photoScanner, Store: photoStore, ThumbGen: thumbGen}

	if cfg.WatchRoot {
		rootWatcher, err := watcher.New(cfg.RootDirectory, func() {
			if _, err := scanHandler.Run(); err != nil {
				log.Printf("Auto-rescan failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize watcher: %v", err)
		}
		if err := rootWatcher.Start(); err != nil {
			log.Fatalf("FATAL: Failed to start watcher: %v", err)
		}
	}

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.GetNote)
				r.Patch("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
				r.Post("/tags", noteHandler.AddNoteTags)
				r.Delete("/tags/{tag}", noteHandler.RemoveNoteTag)
			})
		})

		r.Get("/tags", tagHandler.ListTags)

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.ListPhotos)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", photoHandler.GetPhoto)
				r.Patch("/", photoHandler.UpdatePhoto)
				r.Post("/tags", photoHandler.AddPhotoTag)
				r.Delete("/tags/{name}", photoHandler.RemovePhotoTag)
			})
		})

		r.Route("/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)
			r.Post("/", albumHandler.CreateAlbum)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Patch("/", albumHandler.UpdateAlbum)
				r.Delete("/", albumHandler.DeleteAlbum)
				r.Post("/photos", albumHandler.AddPhotos)
				r.Delete("/photos/{photoId}", albumHandler.RemovePhoto)
			})
		})

		r.Post("/scan", scanHandler.Scan)
	})

	r.Get("/media/original/*", handlers.AssetServer(cfg.RootDirectory, "/media/original/"))
	r.Get("/media/thumbnails/*", handlers.AssetServer(cfg.MediaStoragePath, "/media/"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
