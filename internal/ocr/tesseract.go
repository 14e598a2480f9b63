package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// TesseractExtractor shells out to a local tesseract binary.
type TesseractExtractor struct {
	binary string
}

func NewTesseractExtractor(binary string) *TesseractExtractor {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractExtractor{binary: binary}
}

// Available reports whether the binary can be found on PATH.
func (t *TesseractExtractor) Available() bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

func (t *TesseractExtractor) ExtractText(ctx context.Context, image []byte, _ string) (string, error) {
	tmpFile, err := os.CreateTemp("", "menu-*")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(image); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	out, err := exec.CommandContext(ctx, t.binary, tmpFile.Name(), "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}
