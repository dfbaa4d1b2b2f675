package extract

import (
	"context"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// settleWait gives client-side rendering time to finish after navigation.
const settleWait = 2 * time.Second

var browserCandidates = []string{
	"google-chrome",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// ChromeRenderer renders pages with a headless Chrome via chromedp.
type ChromeRenderer struct {
	timeout time.Duration
}

// NewChromeRenderer returns a renderer, or ErrRendererUnavailable when no
// Chrome-compatible browser binary is on PATH.
func NewChromeRenderer() (*ChromeRenderer, error) {
	for _, name := range browserCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return &ChromeRenderer{timeout: dynamicTimeout}, nil
		}
	}
	return nil, ErrRendererUnavailable
}

// Render navigates to url, waits for the DOM to settle, and reads both the
// rendered body text and the raw HTML. The main document's HTTP status is
// captured from the network events.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (*Rendered, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var status int
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument && status == 0 {
				status = int(resp.Response.Status)
			}
		}
	})

	rendered := &Rendered{}
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(settleWait),
		chromedp.Text("body", &rendered.Text, chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered.HTML),
	)
	if err != nil {
		return nil, err
	}
	rendered.Status = status
	return rendered, nil
}
