package locales

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Blackcats4567/scratch-www/catalog"
	"github.com/Blackcats4567/scratch-www/config"
)

const (
	// Directory naming convention used by the localization platform
	resourceDirFmt  = "scratch-website.%v-l10njson"
	generalResource = "general"
)

// resourceFile is the path of one language's translation file for a resource.
func resourceFile(locDir, resource, code string) string {
	return filepath.Join(locDir, fmt.Sprintf(resourceDirFmt, resource), code+".json")
}

// LoadGeneral builds the general-strings table set: one message table per supported
// language, covering the strings shared by every view. The English baseline is the
// root of all fallback, so failing to load it is fatal. A language with no general
// file gets the English baseline unchanged; a general file that is present but
// malformed is fatal.
func LoadGeneral(c config.Config, locDir string) (general map[string]catalog.Table, err error) {
	baseline, err := catalog.Load(c.App.GeneralBaseline)
	if err != nil {
		return nil, fmt.Errorf("general strings baseline %v: %w", c.App.GeneralBaseline, err)
	}

	general = make(map[string]catalog.Table, len(c.Languages.Codes))
	general[config.FallbackLanguage] = baseline

	for _, code := range c.Languages.Codes {
		if code == config.FallbackLanguage {
			continue
		}

		path := resourceFile(locDir, generalResource, code)
		t, err := catalog.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			general[code] = baseline
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("general strings %v: %w", path, err)
		}
		general[code] = t
	}

	return general, nil
}
