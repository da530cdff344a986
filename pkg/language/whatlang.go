package language

import (
	"errors"
	"strings"

	"github.com/abadojack/whatlanggo"
)

var ErrUndetermined = errors.New("language undetermined")

// WhatlangDetector identifies languages with whatlanggo trigram profiles.
type WhatlangDetector struct{}

func NewWhatlangDetector() WhatlangDetector { return WhatlangDetector{} }

func (WhatlangDetector) Detect(text string) (string, float64, error) {
	info := whatlanggo.Detect(text)
	code := strings.ToLower(strings.TrimSpace(info.Lang.Iso6391()))
	if code == "" {
		return "", 0, ErrUndetermined
	}
	conf := info.Confidence
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return code, conf, nil
}

var _ Detector = WhatlangDetector{}
