package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// textDetector is the slice of the Rekognition API used here.
type textDetector interface {
	DetectText(ctx context.Context, in *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionExtractor reads menu text with AWS Rekognition DetectText.
// Rekognition returns lines without layout, so the text is one line per
// detection in reading order.
type RekognitionExtractor struct {
	client        textDetector
	minConfidence float32
}

func NewRekognitionExtractor(ctx context.Context, region string) (*RekognitionExtractor, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &RekognitionExtractor{
		client:        rekognition.NewFromConfig(cfg),
		minConfidence: 70,
	}, nil
}

func (r *RekognitionExtractor) ExtractText(ctx context.Context, image []byte, _ string) (string, error) {
	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return "", fmt.Errorf("rekognition detect text: %w", err)
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine || d.DetectedText == nil {
			continue
		}
		if aws.ToFloat32(d.Confidence) < r.minConfidence {
			continue
		}
		lines = append(lines, *d.DetectedText)
	}
	return strings.Join(lines, "\n"), nil
}
