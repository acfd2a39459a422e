package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestUploadAttendanceProof_StoresJPEG(t *testing.T) {
	store := storage.NewMemoryStorage("/uploads")
	svc := NewFileService(store)
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	key, err := svc.UploadAttendanceProof(context.Background(), "p-1", date, bytes.NewReader(testPNG(t, 64, 64)), "selfie.PNG", PhotoCheckIn)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "attendance/2025-01-06/p-1-check-in-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "/uploads/"+key, svc.GetFileURL(key))

	rc, err := store.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	_, format, err := image.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestUploadAttendanceProof_RejectsExtension(t *testing.T) {
	svc := NewFileService(storage.NewMemoryStorage("/uploads"))

	_, err := svc.UploadAttendanceProof(context.Background(), "p-1", time.Now(), strings.NewReader("x"), "proof.gif", PhotoCheckOut)
	assert.Error(t, err)
}

func TestUploadAttendanceProof_RejectsGarbage(t *testing.T) {
	svc := NewFileService(storage.NewMemoryStorage("/uploads"))

	_, err := svc.UploadAttendanceProof(context.Background(), "p-1", time.Now(), strings.NewReader("not an image"), "proof.jpg", PhotoCheckIn)
	assert.Error(t, err)
}

func TestCompressImage_LargeImageShrinks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 800, 800))
	rng.Read(img.Pix)
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	src := buf.Bytes()
	require.Greater(t, len(src), maxProofBytes)

	out, err := compressImage(src, maxProofBytes, minProofBytes)
	require.NoError(t, err)
	assert.Less(t, len(out), len(src))

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func noisePNG(t *testing.T, size int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(2))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rng.Read(img.Pix)
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestCompressImage_InRangePNGBecomesJPEG(t *testing.T) {
	src := noisePNG(t, 150)
	require.GreaterOrEqual(t, len(src), minProofBytes)
	require.LessOrEqual(t, len(src), maxProofBytes)

	out, err := compressImage(src, maxProofBytes, minProofBytes)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCompressImage_InRangeJPEGKept(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	rand.New(rand.NewSource(3)).Read(img.Pix)
	var src []byte
	for quality := 100; quality >= 10; quality -= 5 {
		encoded, err := encodeJPEG(img, quality)
		require.NoError(t, err)
		if len(encoded) <= maxProofBytes && len(encoded) >= minProofBytes {
			src = encoded
			break
		}
	}
	require.NotNil(t, src, "no quality produced an in-range JPEG")

	out, err := compressImage(src, maxProofBytes, minProofBytes)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestCompressImage_InRangeGarbageRejected(t *testing.T) {
	src := bytes.Repeat([]byte("x"), 60*1024)

	_, err := compressImage(src, maxProofBytes, minProofBytes)
	assert.Error(t, err)

	svc := NewFileService(storage.NewMemoryStorage("/uploads"))
	_, err = svc.UploadAttendanceProof(context.Background(), "p-1", time.Now(), bytes.NewReader(src), "b.jpg", PhotoCheckIn)
	assert.Error(t, err)
}
