package breed

// DogBreed is the locally cached catalog row, keyed by the upstream breed id.
// Weight and height are the metric range strings the upstream sends
// (e.g. "23 - 29"). The _ko fields hold machine translations and are omitted
// from JSON while untranslated.
type DogBreed struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	NameEn        string `json:"name_en"`
	NameKo        string `json:"name_ko,omitempty"`
	TemperamentEn string `json:"temperament_en"`
	TemperamentKo string `json:"temperament_ko,omitempty"`
	BredForEn     string `json:"bred_for_en"`
	BredForKo     string `json:"bred_for_ko,omitempty"`
	BreedGroupEn  string `json:"breed_group_en"`
	BreedGroupKo  string `json:"breed_group_ko,omitempty"`
	LifeSpanEn    string `json:"life_span_en"`
	LifeSpanKo    string `json:"life_span_ko,omitempty"`
	OriginEn      string `json:"origin_en"`
	OriginKo      string `json:"origin_ko,omitempty"`
	WeightKg      string `json:"weight_kg"`
	HeightCm      string `json:"height_cm"`
	ImageURL      string `json:"image_url"`
}

func (DogBreed) TableName() string {
	return "dog_breeds"
}
