package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"anibridge/api"
	"anibridge/config"
	"anibridge/handlers"
	"anibridge/internal/ttlcache"
	"anibridge/services/animeflv"
	"anibridge/services/unified"
	"anibridge/utils"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] load config: %v", err)
	}

	cache := ttlcache.New(cfg.CacheTTL())

	unifiedSvc := unified.NewService(unified.Options{
		JikanBaseURL: cfg.Providers.Jikan.BaseURL,
		IMDBBaseURL:  cfg.Providers.IMDB.BaseURL,
		IMDBToken:    cfg.Providers.IMDB.Token,
		TMDBBaseURL:  cfg.Providers.TMDB.BaseURL,
		TMDBAPIKey:   cfg.Providers.TMDB.APIKey,
		Cache:        cache,
	})

	flvClient := animeflv.NewClient(cfg.Providers.AnimeFLV.BaseURL, cfg.Providers.AnimeFLV.UserAgent, nil)
	animeSvc := animeflv.NewService(flvClient, cache)

	unifiedHandler := handlers.NewUnifiedHandler(unifiedSvc)
	animeHandler := handlers.NewAnimeHandler(animeSvc)

	router := utils.NewRouter(cfg.Server.AllowedOrigins)
	router.Use(api.RequestLogging())

	if cfg.RateLimit.PerMinute > 0 {
		limiter := api.NewIPRateLimiter(
			rate.Every(time.Minute/time.Duration(cfg.RateLimit.PerMinute)),
			cfg.RateLimit.Burst,
		)
		router.Use(api.RateLimitMiddleware(limiter))
	}

	router.HandleFunc("/", handlers.Home).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/unified-search", unifiedHandler.Search).Methods(http.MethodGet)
	router.HandleFunc("/api/unified-detail/{source}/{id}", unifiedHandler.Detail).Methods(http.MethodGet)
	router.HandleFunc("/api/imdb/titles/{id}", unifiedHandler.IMDBTitle).Methods(http.MethodGet)
	router.HandleFunc("/api/tmdb/details/{id}/{type}", unifiedHandler.TMDBDetails).Methods(http.MethodGet)

	router.HandleFunc("/api/search", animeHandler.Search).Methods(http.MethodGet)
	router.HandleFunc("/api/anime-info/{animeId}", animeHandler.Info).Methods(http.MethodGet)
	router.HandleFunc("/api/video-sources/{animeId}/{episode}", animeHandler.VideoSources).Methods(http.MethodGet)
	router.HandleFunc("/api/latest-episodes", animeHandler.LatestEpisodes).Methods(http.MethodGet)
	router.HandleFunc("/api/latest-animes", animeHandler.LatestAnimes).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("[main] listening on %s", cfg.Server.Listen)
	log.Fatal(srv.ListenAndServe())
}
