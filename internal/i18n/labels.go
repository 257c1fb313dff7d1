package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed labels.json
var labelFiles embed.FS

// labelTable maps an English label to its translations keyed by language.
type labelTable map[string]map[string]string

var (
	labelsOnce sync.Once
	labels     labelTable
	labelsErr  error
)

func loadLabels() (labelTable, error) {
	labelsOnce.Do(func() {
		data, err := labelFiles.ReadFile("labels.json")
		if err != nil {
			labelsErr = fmt.Errorf("i18n: read labels: %w", err)
			return
		}
		var t labelTable
		if err := json.Unmarshal(data, &t); err != nil {
			labelsErr = fmt.Errorf("i18n: decode labels: %w", err)
			return
		}
		labels = t
	})
	return labels, labelsErr
}

// Label translates an English procedure or category name. A label or language
// missing from the dictionary returns english unchanged.
func Label(english, lang string) string {
	if IsDefault(lang) {
		return english
	}
	t, err := loadLabels()
	if err != nil {
		return english
	}
	return FirstString(t[english][lang], english)
}
