package integration

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/api"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/ratestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerWithSQLiteStore drives the HTTP API against a file-backed rate store
func TestServerWithSQLiteStore(t *testing.T) {
	store, err := ratestore.NewSQLiteStore(filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	defer store.Close()

	resolver := ratestore.NewResolver(store, ratestore.NewCache(ratestore.DefaultCacheConfig()))
	srv := api.NewServer(newEngine(), resolver, nil)
	ts := httptest.NewServer(srv.Router(api.Options{Quiet: true}))
	defer ts.Close()

	q := loadQuote(t, "staff_quote.yaml")
	body, err := json.Marshal(q)
	require.NoError(t, err)

	price := func(productID string) api.QuoteResponse {
		t.Helper()
		resp, err := http.Post(ts.URL+"/api/quotes/calculate?productId="+productID, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out api.QuoteResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	before := price("double-c")
	assert.Equal(t, ratestore.SourceDefault, before.RateSource)
	assert.True(t, before.Result.FinalPremium.Equal(staffPremium))

	cfg, err := config.LoadRateConfig(filepath.Join(testdata, "double_c_rates.yaml"))
	require.NoError(t, err)
	rateJSON, err := json.Marshal(cfg)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/products/double-c/rates", bytes.NewReader(rateJSON))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after := price("double-c")
	assert.Equal(t, ratestore.SourceStore, after.RateSource)
	assert.True(t, after.Result.FinalPremium.GreaterThan(staffPremium))

	resp, err = http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	var products []ratestore.ProductInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "double-c", products[0].ProductID)
}
