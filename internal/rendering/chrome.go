package rendering

import (
	"context"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeWriter prints the HTML templates to PDF in a shared headless browser.
// Each render opens its own tab, so WritePDF may be called concurrently.
// Only Title survives printing; the rest of Metadata lives in <meta> tags.
// Requires Chrome/Chromium to be installed on the system.
type ChromeWriter struct {
	browserCtx  context.Context
	allocCancel context.CancelFunc
	cancel      context.CancelFunc
}

// NewChromeWriter starts the browser. Call Close when done.
func NewChromeWriter(ctx context.Context) (*ChromeWriter, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions launches the browser so later tabs attach to it
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, &RenderError{Backend: BackendChrome, Message: "failed to start headless browser", Cause: err}
	}

	return &ChromeWriter{browserCtx: browserCtx, allocCancel: allocCancel, cancel: cancel}, nil
}

// WritePDF renders data's HTML template and prints it to path.
func (w *ChromeWriter) WritePDF(ctx context.Context, data *TemplateData, path string) error {
	html, err := RenderHTML(data)
	if err != nil {
		return err
	}

	tabCtx, cancel := chromedp.NewContext(w.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &RenderError{Backend: BackendChrome, Path: path, Message: "failed to print", Cause: err}
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return &RenderError{Backend: BackendChrome, Path: path, Message: "failed to write", Cause: err}
	}
	return nil
}

// Close shuts the browser down.
func (w *ChromeWriter) Close() error {
	w.cancel()
	w.allocCancel()
	return nil
}
