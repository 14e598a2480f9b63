package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"menuscan/internal/config"
	"menuscan/internal/db"
	"menuscan/internal/extraction"
	"menuscan/internal/llm"
	"menuscan/internal/ocr"
	"menuscan/internal/scan"
	"menuscan/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps are the process-wide collaborators built once at startup.
type Deps struct {
	Repo   scan.Repository
	Images scan.ImageStore
	OCR    ocr.Extractor
	Model  llm.Client

	pool *pgxpool.Pool
}

func (d *Deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// Build picks the store and model providers named by cfg.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Deps, error) {
	d := &Deps{}

	if cfg.DatabaseURL != "" {
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.Repo = scan.NewPostgresRepository(pool)
	} else {
		log.Warn("DATABASE_URL not set, scans are kept in memory")
		d.Repo = scan.NewInMemoryRepository()
	}

	if cfg.R2Enabled() {
		r2, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2BucketName,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("r2 init failed: %w", err)
		}
		d.Images = r2
	}

	var gemini *llm.GeminiClient
	if cfg.OCRProvider == config.ProviderGemini || cfg.StructuringProvider == config.ProviderGemini {
		gemini = llm.NewGeminiClient(llm.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.ModelCallTimeout,
		}, log)
	}

	switch cfg.OCRProvider {
	case config.ProviderRekognition:
		rek, err := ocr.NewRekognitionExtractor(ctx, cfg.AWSRegion)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.OCR = rek
	case config.ProviderTesseract:
		tess := ocr.NewTesseractExtractor(cfg.TesseractBinary)
		if !tess.Available() {
			d.Close()
			return nil, fmt.Errorf("required binary missing: %s", cfg.TesseractBinary)
		}
		d.OCR = tess
	default:
		d.OCR = gemini
	}

	switch cfg.StructuringProvider {
	case config.ProviderHuggingFace:
		d.Model = llm.NewHuggingFaceClient(cfg.HFAPIToken, cfg.HFModelURL, cfg.ModelCallTimeout)
	default:
		d.Model = gemini
	}

	log.Info("providers ready",
		"ocr", cfg.OCRProvider,
		"structuring", cfg.StructuringProvider,
		"postgres", d.pool != nil,
		"image_archive", d.Images != nil,
	)
	return d, nil
}

func PipelineOptions(cfg *config.Config) extraction.Options {
	return extraction.Options{
		MinTextLength: cfg.OCRMinTextLength,
		MaxTextLength: cfg.OCRMaxTextLength,
		MaxItems:      cfg.MaxMenuItems,
		CallTimeout:   cfg.ModelCallTimeout,
	}
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api running", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
