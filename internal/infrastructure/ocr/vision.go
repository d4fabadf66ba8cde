package ocr

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/labellens/backend/internal/logger"
	"google.golang.org/api/option"
)

type annotateFunc func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)

// VisionExtractor reads label text with Google Cloud Vision document text detection
type VisionExtractor struct {
	annotate annotateFunc
	closer   io.Closer
	logger   logger.Logger
}

// NewVisionExtractor creates a Vision client. Credentials come from
// credentialsFile when set, then GOOGLE_CREDENTIALS (inline JSON), then
// application default credentials.
func NewVisionExtractor(ctx context.Context, credentialsFile string, log logger.Logger) (*VisionExtractor, error) {
	const op = "NewVisionExtractor"

	var opts []option.ClientOption
	switch {
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	case os.Getenv("GOOGLE_CREDENTIALS") != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(os.Getenv("GOOGLE_CREDENTIALS"))))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, wrap(op, err, "failed to create Vision client")
	}

	ve := newVisionExtractor(func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
		return client.BatchAnnotateImages(ctx, req)
	}, log)
	ve.closer = client
	return ve, nil
}

func newVisionExtractor(annotate annotateFunc, log logger.Logger) *VisionExtractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &VisionExtractor{annotate: annotate, logger: log}
}

// ExtractText returns the full text Vision detects in image
func (v *VisionExtractor) ExtractText(ctx context.Context, image io.Reader) (string, error) {
	const op = "ExtractText"
	start := time.Now()

	data, err := readImage(op, image)
	if err != nil {
		return "", err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.annotate(ctx, req)
	if err != nil {
		return "", wrap(op, err, "Vision API call failed")
	}
	if len(resp.GetResponses()) == 0 {
		return "", wrap(op, ErrNoText, "no response from Vision API")
	}

	r := resp.GetResponses()[0]
	if r.GetError() != nil && r.GetError().GetMessage() != "" {
		return "", &Error{Op: op, Err: ErrNoText, Details: "Vision API error: " + r.GetError().GetMessage()}
	}

	text := r.GetFullTextAnnotation().GetText()
	if strings.TrimSpace(text) == "" && len(r.GetTextAnnotations()) > 0 {
		text = r.GetTextAnnotations()[0].GetDescription()
	}
	if strings.TrimSpace(text) == "" {
		return "", wrap(op, ErrNoText, "")
	}

	v.logger.Debug("Vision OCR complete",
		logger.Int("image_bytes", len(data)),
		logger.Int("text_chars", len(text)),
		logger.Duration("took", time.Since(start)),
	)
	return text, nil
}

// Close releases the Vision client
func (v *VisionExtractor) Close() error {
	if v.closer != nil {
		return v.closer.Close()
	}
	return nil
}
