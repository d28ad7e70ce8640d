package texture

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Result is one finished decode. ID is the owning uniform declaration's
// stable id; the uniform table joins on it and discards results whose
// declaration has since been removed or repointed at another source.
type Result struct {
	ID     string
	Source string
	Image  *image.RGBA
	Err    error
}

// Loader decodes texture sources off the render thread. Results are
// delivered through a buffered channel that the render loop drains once per
// frame; decodes that outlive their declaration are simply discarded there.
type Loader struct {
	results chan Result
	client  *http.Client
}

func NewLoader() *Loader {
	return &Loader{
		results: make(chan Result, 16),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (l *Loader) Results() <-chan Result {
	return l.results
}

// Load starts an asynchronous decode of source, which may be a file path, an
// http(s) URL or a data URI. It never blocks the caller.
func (l *Loader) Load(id, source string, flip bool) {
	go func() {
		img, err := l.fetch(source)
		if err == nil && flip {
			img = FlipVertical(img)
		}
		l.results <- Result{ID: id, Source: source, Image: img, Err: err}
	}()
}

func (l *Loader) fetch(source string) (*image.RGBA, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		resp, err := l.client.Get(source)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		return Decode(resp.Body)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Decode(f)
	}
}

// Decode reads a single image in any registered format and converts it to
// tightly packed RGBA.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func decodeDataURI(uri string) (*image.RGBA, error) {
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]

	var r io.Reader
	if strings.HasSuffix(meta, ";base64") {
		r = base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload))
	} else {
		unescaped, err := url.QueryUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URI payload: %w", err)
		}
		r = strings.NewReader(unescaped)
	}
	return Decode(r)
}

// FlipVertical returns a vertically mirrored copy of src. Row copies beat
// per-pixel At/Set by a wide margin.
func FlipVertical(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
