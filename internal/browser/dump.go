package browser

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

// DumpPage writes a full-page screenshot and the page HTML into dir
// for post-mortem inspection of a failed flow, returning the
// screenshot path. Wide captures are downscaled to 1024px.
func (s *Session) DumpPage(dir string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("dump dir: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")

	imgBytes, err := s.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return "", fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return "", fmt.Errorf("jpeg encode failed: %w", err)
	}

	shotPath := filepath.Join(dir, "page-"+stamp+".jpg")
	if err := os.WriteFile(shotPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	if body, err := s.page.Timeout(s.timeout).Element("body"); err == nil {
		if html, err := body.HTML(); err == nil {
			_ = os.WriteFile(filepath.Join(dir, "page-"+stamp+".html"), []byte(html), 0o644)
		}
	}

	s.log.Info("page dumped", zap.String("screenshot", shotPath))
	return shotPath, nil
}
