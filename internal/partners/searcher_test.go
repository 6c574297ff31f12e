package partners

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const catalogPage = `<html><body>
<div class="catalog">
  <div class="catalog-item catalog-item--promo">
    <div class="catalog-item__image"><a href="/catalog/ignored/">image</a></div>
    <div class="catalog-item__title">
      <a href="/catalog/galaxy-a55/">
        Samsung <b>Galaxy A55</b> 8/256
      </a>
    </div>
  </div>
  <div class="catalog-item">
    <div class="catalog-item__title"><a href="/catalog/second/">Second</a></div>
  </div>
</div>
</body></html>`

func newCatalog(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewSearcher(t *testing.T) {
	t.Parallel()

	_, err := NewSearcher("https://partner.example/", nil)
	assert.Error(t, err)

	_, err = NewSearcher("not a url", discardLogger())
	assert.Error(t, err)

	s, err := NewSearcher("https://partner.example/", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, s.httpClient.Timeout)
}

func TestSearch_FirstListing(t *testing.T) {
	t.Parallel()

	var gotPath, gotSearch, gotCategory string
	server := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotCategory = r.URL.Query().Get("category_id")
		_, _ = io.WriteString(w, catalogPage)
	})

	s, err := NewSearcher(server.URL+"/", discardLogger())
	require.NoError(t, err)

	product, err := s.Search(context.Background(), "  Galaxy A55 256 ")
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "Galaxy A55 256", gotSearch)
	assert.Equal(t, "0", gotCategory)
	assert.Equal(t, "Samsung Galaxy A55 8/256", product.Name)
	assert.Equal(t, server.URL+"/catalog/galaxy-a55/", product.URL)
	assert.Empty(t, product.Price)
}

func TestSearch_FollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ru/search/?"+r.URL.RawQuery, http.StatusFound)
	})
	mux.HandleFunc("/ru/search/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<div class="catalog-item"><div class="catalog-item__title">`+
			`<a href="pixel-8/">Google Pixel 8</a></div></div>`)
	})
	server := newCatalog(t, mux.ServeHTTP)

	s, err := NewSearcher(server.URL, discardLogger())
	require.NoError(t, err)

	product, err := s.Search(context.Background(), "Pixel 8")
	require.NoError(t, err)
	assert.Equal(t, "Google Pixel 8", product.Name)
	assert.Equal(t, server.URL+"/ru/search/pixel-8/", product.URL)
}

func TestSearch_SoftFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "empty results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<div class="catalog"><p>Nothing found</p></div>`)
			},
			wantErr: ErrNoListing,
		},
		{
			name: "item without title link",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<div class="catalog-item"><div class="catalog-item__title">Pixel</div></div>`)
			},
			wantErr: ErrNoListing,
		},
		{
			name: "similar class is not an item",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<div class="catalog-items"><div class="catalog-item__title"><a href="/x">X</a></div></div>`)
			},
			wantErr: ErrNoListing,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusBadGateway)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := newCatalog(t, tc.handler)
			s, err := NewSearcher(server.URL, discardLogger())
			require.NoError(t, err)

			product, err := s.Search(context.Background(), "Pixel 8")

			assert.Nil(t, product)
			assert.ErrorIs(t, err, competitors.ErrSearchFailed)
			var searchErr *competitors.SearchError
			require.True(t, errors.As(err, &searchErr))
			assert.Equal(t, "Pixel 8", searchErr.Query)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	s, err := NewSearcher("https://partner.example/", discardLogger())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.NotErrorIs(t, err, competitors.ErrSearchFailed)
}

func TestSearch_CancelledContextIsNotSoft(t *testing.T) {
	t.Parallel()

	server := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, catalogPage)
	})
	s, err := NewSearcher(server.URL, discardLogger(), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Search(ctx, "Pixel 8")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, competitors.ErrSearchFailed)
}
