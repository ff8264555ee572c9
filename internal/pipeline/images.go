package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/net/html"

	"github.com/alnah/go-slidepress/internal/fileutil"
)

// Image defaults.
const (
	DefaultScaleTo = 1500
	DefaultQuality = 65

	maxImageBytes = 64 << 20
)

// Sentinel errors for image inlining.
var (
	ErrInvalidImageSettings = errors.New("invalid image settings")
	ErrImageLoad            = errors.New("failed to load image")
)

// ImageSettings controls image inlining.
type ImageSettings struct {
	ScaleTo int    // maximum width in pixels; 0 disables downscaling
	Quality int    // JPEG quality of downscaled images, 1-100
	BaseDir string // resolves relative references; empty leaves them alone
	Remote  bool   // fetch http(s) images
}

// DefaultImageSettings returns the settings used when none are configured.
func DefaultImageSettings() ImageSettings {
	return ImageSettings{ScaleTo: DefaultScaleTo, Quality: DefaultQuality}
}

// Validate checks the settings.
func (s ImageSettings) Validate() error {
	if s.ScaleTo < 0 {
		return fmt.Errorf("%w: scale width %d is negative", ErrInvalidImageSettings, s.ScaleTo)
	}
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("%w: quality %d not in 1-100", ErrInvalidImageSettings, s.Quality)
	}
	return nil
}

// ImageInlining replaces image references with data URIs.
//
// Raster images wider than ScaleTo are downscaled and re-encoded, as JPEG
// or as PNG when they carry transparency. Other images are embedded as
// they are. Sources with identical bytes are encoded once per stage.
// Unreadable sources are logged and left untouched.
type ImageInlining struct {
	Settings ImageSettings
	Client   *http.Client // used when Settings.Remote is set; nil means http.DefaultClient
	Logger   *slog.Logger

	mu      sync.Mutex
	cache   map[[32]byte]string
	encodes int
}

func (i *ImageInlining) Name() string { return "images" }
func (i *ImageInlining) Step() Step   { return StepImages }

// Apply inlines img[src] and url(...) references of style attributes.
func (i *ImageInlining) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := i.Settings.Validate(); err != nil {
		return "", err
	}

	root, isFragment, err := parseHTML(doc)
	if err != nil {
		return "", err
	}
	changed, err := i.inlineNode(ctx, root)
	if err != nil {
		return "", err
	}
	if changed == 0 {
		return doc, nil
	}
	return renderHTML(root, isFragment)
}

func (i *ImageInlining) inlineNode(ctx context.Context, n *html.Node) (int, error) {
	changed := 0
	if n.Type == html.ElementNode {
		for k, a := range n.Attr {
			switch {
			case a.Key == "src" && n.Data == "img":
				uri, ok, err := i.inline(ctx, a.Val)
				if err != nil {
					return changed, err
				}
				if ok {
					n.Attr[k].Val = uri
					changed++
				}
			case a.Key == "style" && strings.Contains(a.Val, "url("):
				val, c, err := i.inlineStyle(ctx, a.Val)
				if err != nil {
					return changed, err
				}
				n.Attr[k].Val = val
				changed += c
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		k, err := i.inlineNode(ctx, c)
		changed += k
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (i *ImageInlining) inlineStyle(ctx context.Context, style string) (string, int, error) {
	var firstErr error
	changed := 0
	out := styleURL.ReplaceAllStringFunc(style, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := styleURL.FindStringSubmatch(m)
		uri, ok, err := i.inline(ctx, sub[2])
		if err != nil {
			firstErr = err
			return m
		}
		if !ok {
			return m
		}
		changed++
		return `url("` + uri + `")`
	})
	return out, changed, firstErr
}

// inline returns the data URI for src. ok is false when src is left as is.
// Only context errors are returned.
func (i *ImageInlining) inline(ctx context.Context, src string) (string, bool, error) {
	data, name, ok, err := i.load(ctx, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		i.logger().Warn("image not inlined", "src", src, "error", err)
		return "", false, nil
	}
	if !ok {
		return "", false, nil
	}
	return i.encode(data, name), true, nil
}

// load reads the bytes behind src.
func (i *ImageInlining) load(ctx context.Context, src string) (data []byte, name string, ok bool, err error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "#"):
		return nil, "", false, nil
	case fileutil.IsURL(src):
		if !i.Settings.Remote {
			return nil, "", false, nil
		}
		data, err := i.fetch(ctx, src)
		return data, src, err == nil, err
	case strings.HasPrefix(src, "file://"):
		path, valid := fileURLToPath(src)
		if !valid {
			return nil, "", false, fmt.Errorf("%w: bad file URL %q", ErrImageLoad, src)
		}
		data, err := readImage(path)
		return data, path, err == nil, err
	case filepath.IsAbs(src):
		data, err := readImage(src)
		return data, src, err == nil, err
	case strings.Contains(src, ":"):
		// Other schemes (blob:, about:) stay as they are.
		return nil, "", false, nil
	}

	if i.Settings.BaseDir == "" {
		return nil, "", false, nil
	}
	base, err := filepath.Abs(i.Settings.BaseDir)
	if err != nil {
		return nil, "", false, err
	}
	path := filepath.Join(base, src)
	if !isPathUnderDir(path, base) {
		return nil, "", false, fmt.Errorf("%w: %q escapes %s", ErrImageLoad, src, base)
	}
	data, err = readImage(path)
	return data, path, err == nil, err
}

func (i *ImageInlining) fetch(ctx context.Context, src string) ([]byte, error) {
	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrImageLoad, src, resp.Status)
	}
	return readLimited(resp.Body)
}

func readImage(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- deck-referenced path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrImageLoad, maxImageBytes)
	}
	return data, nil
}

// encode returns the data URI of data, reusing earlier results for
// identical bytes.
func (i *ImageInlining) encode(data []byte, name string) string {
	key := blake3.Sum256(data)

	i.mu.Lock()
	defer i.mu.Unlock()
	if uri, ok := i.cache[key]; ok {
		return uri
	}
	if i.cache == nil {
		i.cache = make(map[[32]byte]string)
	}

	mediaType := sniffImageType(data, name)
	out := data
	if mediaType == "image/jpeg" || mediaType == "image/png" || mediaType == "image/webp" {
		if scaled, mt, ok := i.downscale(data); ok {
			out, mediaType = scaled, mt
		}
	}
	uri := fileutil.DataURI(mediaType, out)
	i.cache[key] = uri
	i.encodes++
	return uri
}

// downscale re-encodes a raster image narrower than ScaleTo.
// ok is false when the image needs no scaling or cannot be decoded.
func (i *ImageInlining) downscale(data []byte) ([]byte, string, bool) {
	if i.Settings.ScaleTo == 0 {
		return nil, "", false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= i.Settings.ScaleTo {
		return nil, "", false
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", false
	}

	b := src.Bounds()
	h := max(1, b.Dy()*i.Settings.ScaleTo/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, i.Settings.ScaleTo, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if !dst.Opaque() {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", false
		}
		return buf.Bytes(), "image/png", true
	}
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: i.Settings.Quality}); err != nil {
		return nil, "", false
	}
	return buf.Bytes(), "image/jpeg", true
}

// sniffImageType prefers the content signature over the file extension.
func sniffImageType(data []byte, name string) string {
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return fileutil.MIMEType(name)
}

func (i *ImageInlining) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return i.Logger
}
