package breed

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DanmmGuide/server/internal/apperr"
	"github.com/DanmmGuide/server/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "breeds.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DogBreed{}))
	return db
}

// fakeDogAPI serves the given pages in order and an empty array afterwards.
func fakeDogAPI(t *testing.T, pages [][]map[string]interface{}) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		if page >= len(pages) {
			_, _ = w.Write([]byte("[]"))
			return
		}
		_ = json.NewEncoder(w).Encode(pages[page])
	}))
}

// fakeTranslator echoes "KO:" + the source text.
func fakeTranslator(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Q      string `json:"q"`
			Source string `json:"source"`
			Target string `json:"target"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "en", req.Source)
		assert.Equal(t, "ko", req.Target)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "KO:" + req.Q})
	}))
}

func testPages() [][]map[string]interface{} {
	return [][]map[string]interface{}{
		{
			{
				"id":          1,
				"name":        "Jindo",
				"temperament": "Loyal, Alert",
				"bred_for":    "Hunting",
				"breed_group": "Non-Sporting",
				"life_span":   "12 - 15 years",
				"origin":      "Korea",
				"weight":      map[string]string{"metric": "18 - 23"},
				"height":      map[string]string{"metric": "45 - 53"},
				"image":       map[string]string{"url": "https://img.example/jindo.jpg"},
			},
			{
				"id":   2,
				"name": "Sapsali",
				// temperament, bred_for, weight, height, image all absent
			},
		},
		{
			{
				"id":     3,
				"name":   "Poongsan",
				"origin": "Korea",
			},
		},
	}
}

func TestSyncStoresTranslatedCatalog(t *testing.T) {
	db := newTestDB(t)
	api := fakeDogAPI(t, testPages())
	defer api.Close()
	tr := fakeTranslator(t)
	defer tr.Close()

	syncer := NewSyncer(db, NewClient(api.URL, "test-key"), NewTranslator(tr.URL))

	saved, err := syncer.Sync()
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	var jindo DogBreed
	require.NoError(t, db.First(&jindo, "id = ?", 1).Error)
	assert.Equal(t, "Jindo", jindo.NameEn)
	assert.Equal(t, "KO:Jindo", jindo.NameKo)
	assert.Equal(t, "KO:Loyal, Alert", jindo.TemperamentKo)
	assert.Equal(t, "18 - 23", jindo.WeightKg)
	assert.Equal(t, "45 - 53", jindo.HeightCm)
	assert.Equal(t, "https://img.example/jindo.jpg", jindo.ImageURL)

	// A field with no source text never acquires a translation.
	var sapsali DogBreed
	require.NoError(t, db.First(&sapsali, "id = ?", 2).Error)
	assert.Equal(t, "KO:Sapsali", sapsali.NameKo)
	assert.Equal(t, "", sapsali.TemperamentEn)
	assert.Equal(t, "", sapsali.TemperamentKo)
	assert.Equal(t, "", sapsali.WeightKg)
	assert.Equal(t, "", sapsali.ImageURL)
}

func TestSyncIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	api := fakeDogAPI(t, testPages())
	defer api.Close()
	tr := fakeTranslator(t)
	defer tr.Close()

	syncer := NewSyncer(db, NewClient(api.URL, "test-key"), NewTranslator(tr.URL))

	_, err := syncer.Sync()
	require.NoError(t, err)
	var first []DogBreed
	require.NoError(t, db.Order("id ASC").Find(&first).Error)

	saved, err := syncer.Sync()
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	var second []DogBreed
	require.NoError(t, db.Order("id ASC").Find(&second).Error)
	assert.Equal(t, first, second)
}

func TestSyncIfEmptySkipsPopulatedCatalog(t *testing.T) {
	db := newTestDB(t)
	api := fakeDogAPI(t, testPages())
	defer api.Close()
	tr := fakeTranslator(t)
	defer tr.Close()

	syncer := NewSyncer(db, NewClient(api.URL, "test-key"), NewTranslator(tr.URL))

	saved, err := syncer.SyncIfEmpty()
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	saved, err = syncer.SyncIfEmpty()
	require.NoError(t, err)
	assert.Equal(t, 0, saved)
}

func TestTranslationFailureStoresPlaceholder(t *testing.T) {
	db := newTestDB(t)
	api := fakeDogAPI(t, testPages())
	defer api.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	syncer := NewSyncer(db, NewClient(api.URL, "test-key"), NewTranslator(broken.URL))

	// Translation failures are per-field and never abort the sync.
	saved, err := syncer.Sync()
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	var jindo DogBreed
	require.NoError(t, db.First(&jindo, "id = ?", 1).Error)
	assert.Equal(t, "(번역 실패)", jindo.NameKo)
	assert.Equal(t, "(번역 실패)", jindo.OriginKo)
	assert.Equal(t, "Jindo", jindo.NameEn)

	var sapsali DogBreed
	require.NoError(t, db.First(&sapsali, "id = ?", 2).Error)
	assert.Equal(t, "", sapsali.TemperamentKo, "untranslatable field stays empty even when the translator is down")
}

func upstreamWith(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetchAllUpstreamErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"401 maps to upstream unauthorized", http.StatusUnauthorized, `{}`, apperr.UpstreamUnauthorized},
		{"5xx maps to upstream error", http.StatusServiceUnavailable, ``, apperr.UpstreamError},
		{"other non-200 maps to bad response", http.StatusTeapot, ``, apperr.UpstreamBadResponse},
		{"undecodable body maps to parse failure", http.StatusOK, `{"not":"a list"}`, apperr.UpstreamParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := upstreamWith(t, tt.status, tt.body)
			defer srv.Close()

			client := NewClient(srv.URL, "test-key")
			_, err := client.FetchAll()
			require.Error(t, err)

			var ue *UpstreamError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.code, ue.Code)
		})
	}
}

func TestNormalizeToleratesMissingFields(t *testing.T) {
	b := normalize(RawBreed{ID: 7})
	assert.Equal(t, 7, b.ID)
	assert.Equal(t, "", b.NameEn)
	assert.Equal(t, "", b.WeightKg)
	assert.Equal(t, "", b.HeightCm)
	assert.Equal(t, "", b.ImageURL)
}
