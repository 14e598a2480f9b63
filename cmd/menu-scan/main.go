package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"

	"menuscan/internal/app"
	"menuscan/internal/config"
	"menuscan/internal/extraction"
	"menuscan/internal/logging"
	"menuscan/internal/menu"
	"menuscan/internal/scan"
)

func main() {
	imagePath := flag.String("image", "", "menu image to scan")
	textPath := flag.String("text", "", "menu text file to structure (use - for stdin)")
	userID := flag.String("user", "", "owner id stored on the scan")
	flag.Parse()

	if (*imagePath == "") == (*textPath == "") {
		fmt.Fprintln(os.Stderr, "usage: menu-scan -image menu.jpg | -text menu.txt [-user id]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer deps.Close()

	// Without a database the scan would only live until exit.
	var saver extraction.ScanSaver
	if cfg.DatabaseURL != "" {
		saver = scan.NewService(deps.Repo, deps.Images, logger)
	}
	pipeline := extraction.NewPipeline(deps.OCR, deps.Model, saver, app.PipelineOptions(cfg), logger)

	var result *extraction.Result
	if *imagePath != "" {
		result, err = scanImage(ctx, pipeline, *imagePath, *userID)
	} else {
		result, err = scanText(ctx, pipeline, *textPath, *userID)
	}
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal(err)
	}
	if result.Error != "" {
		os.Exit(1)
	}
}

func scanImage(ctx context.Context, p *extraction.Pipeline, path, userID string) (*extraction.Result, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(image)
	if err := menu.ValidateImageType(contentType); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p.ProcessImage(ctx, extraction.ImageInput{
		UserID:      userID,
		Image:       image,
		ContentType: contentType,
	}), nil
}

func scanText(ctx context.Context, p *extraction.Pipeline, path, userID string) (*extraction.Result, error) {
	var (
		text []byte
		err  error
	)
	if path == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, errors.New("menu text is required")
	}
	return p.ProcessText(ctx, userID, string(text)), nil
}
