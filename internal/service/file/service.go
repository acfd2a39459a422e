package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG proofs are decoded then re-encoded as JPEG
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxProofBytes = 150 * 1024
	minProofBytes = 50 * 1024
)

// PhotoKind tells check-in and check-out proofs apart in the storage key.
type PhotoKind string

const (
	PhotoCheckIn  PhotoKind = "check-in"
	PhotoCheckOut PhotoKind = "check-out"
)

type FileService interface {
	// UploadAttendanceProof compresses the photo to JPEG and stores it
	// under attendance/{date}/.
	UploadAttendanceProof(ctx context.Context, personID string, date time.Time, file io.Reader, filename string, kind PhotoKind) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadAttendanceProof(ctx context.Context, personID string, date time.Time, file io.Reader, filename string, kind PhotoKind) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, maxProofBytes, minProofBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.jpg", personID, kind, uuid.NewString()[:8])
	key := path.Join("attendance", date.Format("2006-01-02"), name)

	stored, err := s.storage.Put(ctx, key, bytes.NewReader(compressed), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance proof: %w", err)
	}
	return stored, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Remove(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(key string) string {
	return s.storage.URL(key)
}

// compressImage re-encodes buffer as JPEG, lowering quality and then the
// resolution until it fits under maxSize. JPEGs already in range are kept
// as they are.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" && len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale towards the middle of the target range.
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(maxSize+minSize) / 2 / float64(len(compressed)))
	width := max(int(float64(bounds.Dx())*ratio), 1)
	height := max(int(float64(bounds.Dy())*ratio), 1)

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
