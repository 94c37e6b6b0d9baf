package recognizer

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"edumood/internal/emotion"
	"edumood/internal/logger"

	"gocv.io/x/gocv"
)

// Haar cascade detection parameters, fixed for classroom distance and lighting.
const (
	detectScaleFactor  = 1.1
	detectMinNeighbors = 5
	detectMinSize      = 40

	claheClipLimit = 2.0
	claheTileSize  = 8
)

// Classifier returns the dominant emotion label for one face crop. A failed
// call means "no label for this region" and never aborts the frame.
type Classifier interface {
	Classify(faceJPEG []byte) (string, error)
}

// Pipeline runs the full analysis pass for one frame: face localization on a
// contrast-normalized grayscale image, per-face emotion classification,
// annotation, and aggregation into per-category counts.
type Pipeline struct {
	cascade    gocv.CascadeClassifier
	classifier Classifier
	logger     *logger.Logger
}

// NewPipeline loads the face cascade and wires the classifier. A missing or
// unloadable cascade file is fatal: no partially constructed pipeline is
// returned.
func NewPipeline(cascadePath string, classifier Classifier, logger *logger.Logger) (*Pipeline, error) {
	if _, err := os.Stat(cascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cascadePath)
	}

	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("failed to load cascade: %s", cascadePath)
	}

	return &Pipeline{
		cascade:    cascade,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Close releases the cascade resources.
func (p *Pipeline) Close() error {
	return p.cascade.Close()
}

// annotationColor is the box and label color (red).
var annotationColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}

// Mirror horizontally flips a JPEG frame. Mirroring is the unconditional
// first step for every emitted frame so the classroom sees itself naturally.
func (p *Pipeline) Mirror(frame []byte) ([]byte, error) {
	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded frame is empty")
	}

	gocv.Flip(mat, &mat, 1)

	return encodeJPEG(mat)
}

// Analyze mirrors the frame, finds faces, classifies each one independently
// and draws its annotation, then returns the annotated JPEG along with the
// aggregated per-category counts. A frame with no faces comes back mirrored
// but otherwise untouched, with zero counts.
func (p *Pipeline) Analyze(frame []byte) ([]byte, emotion.Counts, error) {
	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, nil, fmt.Errorf("decoded frame is empty")
	}

	gocv.Flip(mat, &mat, 1)

	faces := p.detectFaces(mat)

	var labels []string
	for _, rect := range faces {
		label, err := p.classifyRegion(mat, rect)
		if err != nil {
			p.logger.Warning("Emotion classification failed for region %v: %v", rect, err)
			continue
		}

		labels = append(labels, label)
		p.annotate(&mat, rect, label)
	}

	annotated, err := encodeJPEG(mat)
	if err != nil {
		return nil, nil, err
	}

	return annotated, emotion.Normalize(labels), nil
}

// detectFaces runs the cascade on a CLAHE-equalized grayscale copy. The
// contrast normalization keeps detection usable across classroom lighting.
func (p *Pipeline) detectFaces(mat gocv.Mat) []image.Rectangle {
	gray := gocv.NewMat()
	defer gray.Close()

	if err := gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray); err != nil {
		p.logger.Error("Failed to convert frame to grayscale: %v", err)
		return nil
	}

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileSize, claheTileSize))
	defer clahe.Close()
	clahe.Apply(gray, &gray)

	return p.cascade.DetectMultiScaleWithParams(
		gray,
		detectScaleFactor,
		detectMinNeighbors,
		0,
		image.Pt(detectMinSize, detectMinSize),
		image.Pt(0, 0),
	)
}

// classifyRegion crops one face and asks the classifier for its label.
func (p *Pipeline) classifyRegion(mat gocv.Mat, rect image.Rectangle) (string, error) {
	roi := mat.Region(rect)
	defer roi.Close()

	crop, err := encodeJPEG(roi)
	if err != nil {
		return "", fmt.Errorf("failed to encode face crop: %w", err)
	}

	return p.classifier.Classify(crop)
}

// annotate burns the bounding box and label into the frame.
func (p *Pipeline) annotate(mat *gocv.Mat, rect image.Rectangle, label string) {
	if err := gocv.Rectangle(mat, rect, annotationColor, 2); err != nil {
		p.logger.Error("Failed to draw rectangle: %v", err)
		return
	}

	pt := image.Pt(rect.Min.X, rect.Min.Y-10)
	if err := gocv.PutText(mat, label, pt, gocv.FontHersheySimplex, 0.7, annotationColor, 2); err != nil {
		p.logger.Error("Failed to draw label: %v", err)
	}
}

// encodeJPEG encodes a Mat and copies the bytes out of the native buffer.
func encodeJPEG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
