package ocrclient

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// CloudConfig identifies a Document AI OCR processor.
type CloudConfig struct {
	ProjectID       string `mapstructure:"project_id"       yaml:"project_id"       json:"project_id"`
	Location        string `mapstructure:"location"         yaml:"location"         json:"location"`
	ProcessorID     string `mapstructure:"processor_id"     yaml:"processor_id"     json:"processor_id"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file" json:"credentials_file"`
}

// CloudEngine runs OCR through Google Document AI. The processor sees whole
// page images; mode-specific segmentation is not available remotely, so
// ModeTable and ModeDigits degrade to plain text recognition and callers
// post-filter locally.
type CloudEngine struct {
	cfg    CloudConfig
	client *documentai.DocumentProcessorClient
	name   string
}

// NewCloudEngine dials the regional Document AI endpoint.
func NewCloudEngine(ctx context.Context, cfg CloudConfig) (*CloudEngine, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
	opts := []option.ClientOption{option.WithEndpoint(endpoint)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		cfg.ProjectID, cfg.Location, cfg.ProcessorID)
	return &CloudEngine{cfg: cfg, client: client, name: name}, nil
}

// Recognize submits the image as a raw PNG document and returns its text.
func (e *CloudEngine) Recognize(ctx context.Context, img image.Image, _ Mode) (RawText, error) {
	if img == nil {
		return RawText{}, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return RawText{}, fmt.Errorf("encode region: %w", err)
	}

	req := &documentaipb.ProcessRequest{
		Name: e.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  buf.Bytes(),
				MimeType: "image/png",
			},
		},
		SkipHumanReview: true,
	}
	resp, err := e.client.ProcessDocument(ctx, req)
	if err != nil {
		return RawText{}, fmt.Errorf("process document: %w", err)
	}
	return RawText{Text: resp.GetDocument().GetText()}, nil
}

// Close releases the underlying gRPC connection.
func (e *CloudEngine) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
