package pipeline

import (
	"context"
	"strings"
)

// CSSInjection injects extra CSS as a <style> block.
type CSSInjection struct {
	CSS string
}

func (s *CSSInjection) Name() string { return "css" }
func (s *CSSInjection) Step() Step   { return StepPrepare }

// Apply inserts the CSS block.
func (s *CSSInjection) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return InjectCSS(doc, s.CSS), nil
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes sequences that could break out of a <script> block.
func sanitizeScript(js string) string {
	return strings.ReplaceAll(js, "</script", `<\/script`)
}

// insertBeforeBodyEnd inserts block before the last </body>, or appends it
// when the document has no closing body tag.
func insertBeforeBodyEnd(htmlContent, block string) string {
	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	return htmlContent + block
}
