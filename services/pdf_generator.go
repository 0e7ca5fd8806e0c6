package services

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"officeflow_app_go/models"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PrintOptions contains page setup for HTML-to-PDF printing
type PrintOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // A4, letter, legal
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPrintOptions returns the default page setup for documents
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// PrintOptionsFromTemplate takes the page setup stored on a document template
func PrintOptionsFromTemplate(template *models.DocumentTemplate) PrintOptions {
	opts := DefaultPrintOptions()
	if template == nil {
		return opts
	}
	if template.PageOrientation != "" {
		opts.PageOrientation = template.PageOrientation
	}
	if template.PageSize != "" {
		opts.PageSize = template.PageSize
	}
	opts.MarginTop = template.MarginTop
	opts.MarginBottom = template.MarginBottom
	opts.MarginLeft = template.MarginLeft
	opts.MarginRight = template.MarginRight
	return opts
}

// PrintHTMLToPDF renders HTML content to PDF using headless Chrome
func PrintHTMLToPDF(htmlContent string, options PrintOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "letter":
		paperWidth = 8.5
		paperHeight = 11.0
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	default: // A4
		paperWidth = 8.27
		paperHeight = 11.69
	}

	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// PrintToPDF takes margins in inches
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// PrintDocumentPDF resolves a template against a data bag, applies the
// layout stylesheet and prints the result to PDF.
func PrintDocumentPDF(markup string, bag DataBag, layoutID string, options PrintOptions) ([]byte, error) {
	doc, err := RenderDocumentHTML(markup, bag, layoutID)
	if err != nil {
		return nil, err
	}
	return PrintHTMLToPDF(doc, options)
}
