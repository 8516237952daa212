package breed

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Translator calls an English→Korean machine translation endpoint
// (LibreTranslate request shape).
type Translator struct {
	http *resty.Client
	url  string
}

func NewTranslator(apiURL string) *Translator {
	return &Translator{
		http: resty.New().SetTimeout(5 * time.Second),
		url:  apiURL,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *Translator) Translate(text string) (string, error) {
	var out translateResponse
	resp, err := t.http.R().
		SetBody(translateRequest{Q: text, Source: "en", Target: "ko"}).
		SetResult(&out).
		Post(t.url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("translate API status %d", resp.StatusCode())
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("translate API returned an empty result")
	}
	return out.TranslatedText, nil
}
