//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that delays response
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Don't respond - let context timeout
		select {}
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err = fetcher.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "JavaScript Rendered")
	assert.NotContains(t, html, "Loading...")
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	// Server that delays longer than the fetch timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	// Use a short timeout for testing (100ms, shorter than server delay)
	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	ctx := context.Background()
	_, err = fetcher.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	// First close should succeed
	err = fetcher.Close()
	require.NoError(t, err)

	// Second close should also succeed (not panic or error)
	err = fetcher.Close()
	require.NoError(t, err)
}

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	err = fetcher.Close()
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, mdclip.EINVALID, mdclip.ErrorCode(err))
	assert.Contains(t, mdclip.ErrorMessage(err), "closed")
}

func TestFetcher_Fetch_MarksHiddenElements(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Hidden</title><style>.promo-box { display: none; }</style></head>
<body>
<p id="shown">Visible paragraph</p>
<div class="promo-box" id="promo">Hidden by stylesheet</div>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithSettleDelay(0))
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Regexp(t, `<div class="promo-box" id="promo" `+mdclip.HiddenAttr+`=""`, html)
	assert.NotContains(t, html, `<p id="shown" `+mdclip.HiddenAttr)
}

func TestFetcher_Fetch_WaitsForLateContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<div id="content">Loading...</div>
<script>
window.addEventListener('load', () => {
  setTimeout(() => { document.getElementById('content').textContent = 'Injected after load'; }, 100);
});
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithSettleDelay(500 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "Injected after load")
	assert.True(t, strings.Contains(html, "</html>"))
}

func TestFetcher_Fetch_ReusesTabAcrossPages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>page ` + r.URL.Path + `</p></body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithTabs(1), rod.WithSettleDelay(0))
	require.NoError(t, err)
	defer fetcher.Close()

	first, err := fetcher.Fetch(context.Background(), srv.URL+"/one")
	require.NoError(t, err)
	second, err := fetcher.Fetch(context.Background(), srv.URL+"/two")
	require.NoError(t, err)

	assert.Contains(t, first, "page /one")
	assert.Contains(t, second, "page /two")
	assert.NotContains(t, second, "page /one")
}

func TestFetcher_Fetch_RecoversAfterFailedPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(500 * time.Millisecond)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>served ` + r.URL.Path + `</p></body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(
		rod.WithTabs(1),
		rod.WithSettleDelay(0),
		rod.WithFetchTimeout(200*time.Millisecond),
	)
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	html, err := fetcher.Fetch(context.Background(), srv.URL+"/fast")

	require.NoError(t, err)
	assert.Contains(t, html, "served /fast")
}

func TestFetcher_Fetch_WaitsForFreeTab(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/held" {
			<-release
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()
	defer close(release)

	fetcher, err := rod.NewFetcher(rod.WithTabs(1), rod.WithSettleDelay(0))
	require.NoError(t, err)
	defer fetcher.Close()

	go func() {
		_, _ = fetcher.Fetch(context.Background(), srv.URL+"/held")
	}()
	time.Sleep(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = fetcher.Fetch(ctx, srv.URL+"/other")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
