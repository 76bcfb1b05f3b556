package extract

import (
	"strings"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
	"github.com/poutila/mdguard/urlscheme"
)

// Links scans link_open tokens, classifying each against the profile's
// scheme allowlist (spec §4.9/§4.12). A link that wraps a single image
// (the `[![alt](img)](url)` shape) is classified "image" and carries
// that image's content-addressed id for joinability (I8/I11).
func Links(tokens []*mdtoken.Token, allowed map[string]bool) []snapshot.Link {
	var out []snapshot.Link
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != "link_open" {
			continue
		}
		url := t.Attrs["href"]
		var textB strings.Builder
		var imageID *string
		depth := 1
		j := i + 1
		for ; j < len(tokens); j++ {
			tk := tokens[j]
			switch tk.Type {
			case "link_close":
				depth--
				if depth == 0 {
					goto closed
				}
			case "link_open":
				depth++
			case "text":
				textB.WriteString(tk.Content)
			case "image":
				id := ImageID(tk.Attrs["src"], tk.Content)
				imageID = &id
			}
		}
	closed:
		cls := urlscheme.Classify(url, allowed)
		var scheme *string
		if cls.Scheme != "" {
			s := cls.Scheme
			scheme = &s
		}
		typ := urlscheme.Kind(url, cls.Scheme, imageID != nil)

		out = append(out, snapshot.Link{
			URL:     url,
			Text:    textB.String(),
			Type:    typ,
			Scheme:  scheme,
			Allowed: cls.Allowed,
			ImageID: imageID,
			Line:    t.Map[0],
		})
		i = j
	}
	return out
}
