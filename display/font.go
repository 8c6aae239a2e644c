package display

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFont reads a TTF/OTF file, or the bundled Go Regular face when path
// is empty. A missing or unparsable font is a startup error.
func loadFont(path string) (*text.GoTextFaceSource, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		data = b
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return src, nil
}
