package main

import (
	"log"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"flowsight/internal/archive"
	"flowsight/internal/gateway/config"
	"flowsight/internal/gateway/handler"
	"flowsight/internal/gateway/middleware"
	"flowsight/internal/history"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var artifacts archive.Store
	if cfg.Archive.Enabled {
		s3, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			log.Printf("artifact archive disabled: %v", err)
		} else {
			artifacts = s3
		}
	}

	hist := history.NewFromEnv(cfg.HistoryPath)
	defer hist.Close()

	svc := handler.NewService(hist, artifacts)
	mux := handler.BuildMux(svc)
	h := middleware.CORS(mux)

	log.Printf("Starting API server on %s (env=%s)", cfg.Port, cfg.Env)
	log.Fatal(http.ListenAndServe(cfg.Port, h2c.NewHandler(h, &http2.Server{})))
}
