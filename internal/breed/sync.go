package breed

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanmmGuide/server/internal/logs"
)

// Placeholder stored when a single field fails to translate. Kept verbatim
// from the mobile app ("translation failed" in Korean).
const translationFailed = "(번역 실패)"

type translator interface {
	Translate(text string) (string, error)
}

// Syncer populates the local catalog from the breed API, translating the six
// text fields on the way in.
type Syncer struct {
	db         *gorm.DB
	client     *Client
	translator translator
}

func NewSyncer(db *gorm.DB, client *Client, tr *Translator) *Syncer {
	return &Syncer{db: db, client: client, translator: tr}
}

// normalize maps a raw upstream record onto the catalog row. Missing
// subfields become empty strings; this never fails.
func normalize(raw RawBreed) DogBreed {
	return DogBreed{
		ID:            raw.ID,
		NameEn:        raw.Name,
		TemperamentEn: raw.Temperament,
		BredForEn:     raw.BredFor,
		BreedGroupEn:  raw.BreedGroup,
		LifeSpanEn:    raw.LifeSpan,
		OriginEn:      raw.Origin,
		WeightKg:      raw.Weight.Metric,
		HeightCm:      raw.Height.Metric,
		ImageURL:      raw.Image.URL,
	}
}

// translate fills the _ko columns for every non-empty English field. A field
// that fails gets the placeholder; the sync itself never aborts over a
// translation.
func (s *Syncer) translate(b *DogBreed) {
	pairs := []struct {
		src string
		dst *string
	}{
		{b.NameEn, &b.NameKo},
		{b.TemperamentEn, &b.TemperamentKo},
		{b.BredForEn, &b.BredForKo},
		{b.BreedGroupEn, &b.BreedGroupKo},
		{b.LifeSpanEn, &b.LifeSpanKo},
		{b.OriginEn, &b.OriginKo},
	}
	for _, p := range pairs {
		if p.src == "" {
			continue
		}
		translated, err := s.translator.Translate(p.src)
		if err != nil {
			logs.LogJSON("WARN", "Breed field translation failed", map[string]interface{}{
				"error":   err.Error(),
				"breedID": b.ID,
				"text":    p.src,
			})
			*p.dst = translationFailed
			continue
		}
		*p.dst = translated
	}
}

// Sync fetches the full upstream catalog and upserts every row by external
// id, replacing existing rows in full. Returns the number of rows saved.
func (s *Syncer) Sync() (int, error) {
	raws, err := s.client.FetchAll()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range raws {
		b := normalize(raw)
		s.translate(&b)

		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&b).Error
		if err != nil {
			return count, fmt.Errorf("save breed %d: %w", b.ID, err)
		}
		count++
	}
	return count, nil
}

// SyncIfEmpty runs a full sync only when the catalog holds no rows yet.
// Returns the number of rows saved (zero when the catalog was populated).
func (s *Syncer) SyncIfEmpty() (int, error) {
	var count int64
	if err := s.db.Model(&DogBreed{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	return s.Sync()
}
