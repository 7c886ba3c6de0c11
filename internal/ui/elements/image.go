package elements

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/imagecmp"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// Image is an <img> element.
type Image struct {
	Element
}

func NewImage(s *ui.Session, selector, name string) *Image {
	return &Image{newElement(s, "image", selector, name)}
}

// Src returns the src attribute.
func (i *Image) Src(q ...Q) (string, error) {
	l, err := i.Locator(q...)
	if err != nil {
		return "", err
	}
	src, err := l.GetAttribute("src")
	if err != nil {
		return "", fmt.Errorf("failed to read src of %s: %w", i, err)
	}
	return src, nil
}

func (i *Image) ShouldHaveSource(src string, q ...Q) error {
	return i.do(fmt.Sprintf("%s should have source %q", i.title(), src), q, func(l playwright.Locator) error {
		return i.expect(l).ToHaveAttribute("src", src)
	})
}

// SourceShouldMatch downloads the displayed image and compares it with
// the original file, fitted the way the back office resizes uploads.
func (i *Image) SourceShouldMatch(originalPath string, threshold float64, q ...Q) error {
	return i.s.Step("Comparing original and uploaded pictures", func() error {
		src, err := i.Src(q...)
		if err != nil {
			return err
		}
		if src == "" {
			return fmt.Errorf("src of %s is empty", i)
		}
		abs, err := resolve(i.s.Page.URL(), src)
		if err != nil {
			return err
		}
		i.s.Log.Info("image comparison started",
			zap.String("original", originalPath), zap.String("uploaded", abs))

		resp, err := i.s.Page.Context().Request().Get(abs)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", abs, err)
		}
		body, err := resp.Body()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", abs, err)
		}

		original, err := imagecmp.Load(originalPath)
		if err != nil {
			return err
		}
		uploaded, err := imagecmp.Decode(body)
		if err != nil {
			return err
		}

		fitted, cmpErr := imagecmp.FitAndCompare(original, uploaded, threshold)
		if png, err := imagecmp.EncodePNG(fitted); err == nil {
			i.s.AttachPNG("Original image (resized)", png)
		}
		if png, err := imagecmp.EncodePNG(uploaded); err == nil {
			i.s.AttachPNG("Uploaded image", png)
		}

		var mm *imagecmp.MismatchError
		if errors.As(cmpErr, &mm) {
			if png, err := imagecmp.EncodePNG(mm.Diff); err == nil {
				i.s.AttachPNG("Difference", png)
			}
		}
		return cmpErr
	})
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid page url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
