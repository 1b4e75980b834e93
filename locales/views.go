package locales

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Blackcats4567/scratch-www/catalog"
	"github.com/Blackcats4567/scratch-www/config"
)

// Route is one entry of the application's route table.
type Route struct {
	Name     string `json:"name"`
	Pattern  string `json:"pattern"`
	View     string `json:"view"`
	Redirect string `json:"redirect,omitempty"`
}

// View is one localizable unit of the application: a name, the resource name it is
// published under on the localization platform, its default English strings and its
// localized asset URLs.
type View struct {
	Name     string
	Resource string
	// Default English strings, nil for viewless routes
	Defaults catalog.Table
	// Asset key -> language code -> URL
	Assets map[string]map[string]string
}

// AssetURLs resolves the view's asset table for one language. Keys without a URL for
// that language get the English URL; keys with neither are omitted.
func (v View) AssetURLs(code string) map[string]string {
	if len(v.Assets) == 0 {
		return nil
	}

	out := make(map[string]string, len(v.Assets))
	for key, urls := range v.Assets {
		if url, ok := urls[code]; ok {
			out[key] = url
		} else if url, ok := urls[config.FallbackLanguage]; ok {
			out[key] = url
		}
	}

	return out
}

// LoadViews derives the list of views to build from the configured route table.
// Redirect routes are skipped and routes sharing a view are collapsed into one entry.
// A view directory that has a template but no default-strings file is a fatal
// misconfiguration.
func LoadViews(c config.Config) (views []View, err error) {
	data, err := os.ReadFile(c.App.Routes)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	var routes []Route
	if err = json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("route table %v: %w", c.App.Routes, err)
	}

	seen := make(map[string]bool)
	for _, r := range routes {
		if r.Redirect != "" || r.View == "" || seen[r.View] {
			continue
		}
		seen[r.View] = true

		v, err := loadView(c, r.View)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, nil
}

func loadView(c config.Config, name string) (v View, err error) {
	v = View{Name: name, Resource: c.ResourceName(name)}
	dir := filepath.Join(c.App.ViewsDir, name)

	v.Defaults, err = catalog.Load(filepath.Join(dir, "l10n.json"))
	if errors.Is(err, fs.ErrNotExist) {
		// Tolerated only for routes with no template at all
		template := filepath.Join(dir, name+c.App.TemplateExt)
		if _, serr := os.Stat(template); serr == nil {
			return v, fmt.Errorf("view %v has a template but no l10n.json", name)
		}
		v.Defaults = nil
	} else if err != nil {
		return v, fmt.Errorf("view %v: %w", name, err)
	}

	assetData, err := os.ReadFile(filepath.Join(dir, "l10n-static.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	} else if err != nil {
		return v, fmt.Errorf("view %v: %w", name, err)
	}
	if err = json.Unmarshal(assetData, &v.Assets); err != nil {
		return v, fmt.Errorf("view %v l10n-static.json: %w", name, err)
	}

	return v, nil
}
