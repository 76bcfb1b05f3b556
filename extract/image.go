package extract

import (
	"strings"

	"github.com/google/uuid"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// imageNamespace is a fixed, arbitrary UUID used as the namespace for
// content-addressed image ids (uuid.NewSHA1 is deterministic given the
// same namespace + data, which is what P2/I8 require).
var imageNamespace = uuid.MustParse("6f0a6e2c-6b1d-4b0e-9c1a-3a2b5c7d9e10")

// ImageID returns the stable, content-addressed id shared by a
// structure-side Image and any Link that wraps the same image.
func ImageID(src, alt string) string {
	id := uuid.NewSHA1(imageNamespace, []byte(src+"|"+alt))
	return "img_" + strings.ReplaceAll(id.String(), "-", "")
}

// Images scans self-contained "image" tokens (spec §4.9).
func Images(tokens []*mdtoken.Token) []snapshot.Image {
	var out []snapshot.Image
	for _, t := range tokens {
		if t.Type != "image" {
			continue
		}
		src := t.Attrs["src"]
		alt := t.Content
		kind, format, size := classifyImage(src)
		out = append(out, snapshot.Image{
			Src:       src,
			Alt:       alt,
			Title:     t.Attrs["title"],
			ImageID:   ImageID(src, alt),
			ImageKind: kind,
			Format:    format,
			SizeBytes: size,
			Line:      t.Map[0],
		})
	}
	return out
}

func classifyImage(src string) (kind, format string, size *int) {
	switch {
	case strings.HasPrefix(src, "data:"):
		mediaType, b64 := splitDataURI(src)
		sub := "unknown"
		if i := strings.Index(mediaType, "/"); i >= 0 {
			sub = strings.ToLower(mediaType[i+1:])
		}
		if sub == "" {
			sub = "unknown"
		}
		n := decodedBase64Size(b64)
		return "data", sub, &n
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return "external", extOf(src), nil
	default:
		return "local", extOf(src), nil
	}
}

func splitDataURI(src string) (mediaType, payload string) {
	rest := strings.TrimPrefix(src, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return "", ""
	}
	header := rest[:comma]
	payload = rest[comma+1:]
	mediaType = strings.TrimSuffix(header, ";base64")
	return mediaType, payload
}

func decodedBase64Size(b64 string) int {
	n := len(strings.TrimRight(b64, "="))
	return (n * 3) / 4
}

func extOf(src string) string {
	path := src
	if q := strings.IndexAny(path, "?#"); q >= 0 {
		path = path[:q]
	}
	dot := strings.LastIndex(path, ".")
	slash := strings.LastIndex(path, "/")
	if dot < 0 || dot < slash {
		return "unknown"
	}
	ext := strings.ToLower(path[dot+1:])
	if ext == "" {
		return "unknown"
	}
	return ext
}
