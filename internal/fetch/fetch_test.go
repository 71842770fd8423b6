package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "not-a-valid-url", "ftp://example.com/file", "http://"} {
		t.Run(u, func(t *testing.T) {
			_, err := URL(context.Background(), u, nil)
			require.Error(t, err)
			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_RemovesNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, []string{"main"})
	require.NoError(t, err)
	assert.Equal(t, "Main Content\nThis is the important text.", text)
}

func TestExtractMainText_ListsBecomeBullets(t *testing.T) {
	html := `<div class="job-description">
		<h2>Responsibilities</h2>
		<ul>
			<li>Build
			    APIs</li>
			<li><p>Mentor <b>engineers</b></p></li>
			<li>   </li>
		</ul>
		<p>Requirements:<br>5 years of Go</p>
	</div>
	<div class="sidebar">Sidebar junk</div>`

	text, err := ExtractMainText(html, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Responsibilities\n- Build APIs\n- Mentor engineers\nRequirements:\n5 years of Go", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><div>Some content here.</div></body></html>`, []string{"#missing"})
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestExtractMainText_PlatformNoise(t *testing.T) {
	html := `<div class="job__description">About the role</div><form>Apply now</form><div class="post-apply">Thanks</div>`
	text, err := ExtractMainText(html, PlatformContentSelectors(PlatformGreenhouse), PlatformNoiseSelectors(PlatformGreenhouse)...)
	require.NoError(t, err)
	assert.Equal(t, "About the role", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("  short  ", 0))
	assert.False(t, ShouldUseBrowser("long enough", 5))
	assert.True(t, ShouldUseBrowser("ñññ", 4))
}
