package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"menuscan/internal/llm"
	"menuscan/internal/menu"
	"menuscan/internal/ocr"
	"menuscan/internal/scan"
)

// Degraded result messages.
const (
	ErrorProcessingImage = "Error processing image"
	ErrInsufficientText  = "insufficient text extracted"
	ErrTextExtraction    = "failed to extract text from image"
	ErrStructuring       = "failed to structure menu text"
)

// ScanSaver persists a successful extraction.
type ScanSaver interface {
	Save(ctx context.Context, in scan.SaveInput) (*scan.Scan, error)
}

type Options struct {
	MinTextLength int
	MaxTextLength int
	MaxItems      int
	CallTimeout   time.Duration
}

// Result is what callers always get back. MenuItems is never nil.
type Result struct {
	Text           string          `json:"text"`
	RestaurantName *string         `json:"restaurant_name,omitempty"`
	MenuType       *string         `json:"menu_type,omitempty"`
	CuisineType    *string         `json:"cuisine_type,omitempty"`
	MenuItems      []menu.MenuItem `json:"menu_items"`
	ScanID         string          `json:"scan_id,omitempty"`
	Truncated      bool            `json:"truncated,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type ImageInput struct {
	UserID      string
	Image       []byte
	ContentType string
}

// Pipeline turns one menu image or text blob into structured menu data.
// The OCR call and the structuring call run strictly in sequence.
type Pipeline struct {
	ocr   ocr.Extractor
	model llm.Client
	saver ScanSaver
	opts  Options
	log   *slog.Logger
}

// NewPipeline wires a pipeline. saver may be nil to skip persistence.
func NewPipeline(extractor ocr.Extractor, model llm.Client, saver ScanSaver, opts Options, log *slog.Logger) *Pipeline {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = 10
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 2000
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 25
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 45 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		ocr:   extractor,
		model: model,
		saver: saver,
		opts:  opts,
		log:   log,
	}
}

// ProcessImage runs OCR then structuring. It never returns an error:
// failures come back as a degraded Result.
func (p *Pipeline) ProcessImage(ctx context.Context, in ImageInput) (res *Result) {
	defer p.recoverTo(&res, ErrorProcessingImage)

	start := time.Now()
	text, err := p.extractText(ctx, in)
	if err != nil {
		p.log.Error("ocr failed", "error", err, "image_bytes", len(in.Image))
		return degraded("", ErrTextExtraction)
	}
	p.log.Info("ocr done",
		"text_length", len(text),
		"duration", time.Since(start),
	)

	if !ocr.Meaningful(text, p.opts.MinTextLength) {
		p.log.Warn("ocr text too short", "text_length", len(text))
		return degraded(text, ErrInsufficientText)
	}

	return p.structure(ctx, in.UserID, text, in.Image, in.ContentType)
}

// ProcessText skips OCR and structures pasted menu text directly.
func (p *Pipeline) ProcessText(ctx context.Context, userID, text string) (res *Result) {
	defer p.recoverTo(&res, text)

	return p.structure(ctx, userID, text, nil, "")
}

func (p *Pipeline) extractText(ctx context.Context, in ImageInput) (string, error) {
	if p.ocr == nil {
		return "", errors.New("no OCR provider configured")
	}
	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()

	return p.ocr.ExtractText(callCtx, in.Image, in.ContentType)
}

func (p *Pipeline) structure(ctx context.Context, userID, rawText string, image []byte, contentType string) *Result {
	prepared, truncated := ocr.Truncate(ocr.Clean(rawText), p.opts.MaxTextLength)
	if truncated {
		p.log.Info("menu text truncated", "original_length", len(rawText), "max_chars", p.opts.MaxTextLength)
	}

	prompt := llm.BuildMenuStructuringPrompt(prepared, p.opts.MaxItems)

	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	output, err := p.model.Structure(callCtx, prompt)
	if err != nil {
		p.log.Error("structuring call failed", "error", err)
		res := degraded(rawText, ErrStructuring)
		res.Truncated = truncated
		return res
	}
	p.log.Info("structuring done",
		"output_length", len(output),
		"duration", time.Since(start),
	)

	data, err := llm.ParseMenuData(output)
	if err != nil {
		p.log.Warn("structuring output rejected", "error", err)
		res := degraded(rawText, err.Error())
		res.Truncated = truncated
		return res
	}

	res := &Result{
		Text:           rawText,
		RestaurantName: data.RestaurantName,
		MenuType:       data.MenuType,
		CuisineType:    data.CuisineType,
		MenuItems:      menu.Normalize(data.MenuItems, p.opts.MaxItems),
		Truncated:      truncated,
	}
	p.log.Info("menu parsed",
		"items", len(res.MenuItems),
		"raw_items", len(data.MenuItems),
	)

	if len(res.MenuItems) > 0 {
		res.ScanID = p.persist(ctx, userID, res, image, contentType)
	}
	return res
}

// persist stores the result and returns the scan id, or "" when saving
// failed. Failures never reach the caller.
func (p *Pipeline) persist(ctx context.Context, userID string, res *Result, image []byte, contentType string) string {
	if p.saver == nil {
		return ""
	}

	sc, err := p.saver.Save(context.WithoutCancel(ctx), scan.SaveInput{
		UserID:  userID,
		RawText: res.Text,
		Data: &menu.MenuData{
			RestaurantName: res.RestaurantName,
			MenuType:       res.MenuType,
			CuisineType:    res.CuisineType,
			MenuItems:      res.MenuItems,
		},
		Image:       image,
		ContentType: contentType,
	})
	if err != nil {
		p.log.Error("scan persistence failed", "error", err, "user_id", userID, "items", len(res.MenuItems))
		return ""
	}
	return sc.ID
}

func (p *Pipeline) recoverTo(res **Result, fallbackText string) {
	r := recover()
	if r == nil {
		return
	}
	p.log.Error("extraction panic",
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	*res = degraded(fallbackText, fmt.Sprint(r))
}

func degraded(text, reason string) *Result {
	return &Result{
		Text:      text,
		MenuItems: []menu.MenuItem{},
		Error:     reason,
	}
}
