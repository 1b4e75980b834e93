package locales

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackcats4567/scratch-www/catalog"
	"github.com/Blackcats4567/scratch-www/config"
)

func viewsConfig(t *testing.T, routes string) config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "routes.json"), routes)

	return config.Config{
		App: config.AppConfig{
			Routes:      filepath.Join(dir, "routes.json"),
			ViewsDir:    filepath.Join(dir, "views"),
			TemplateExt: ".jsx",
		},
	}
}

func TestLoadViewsSkipsRedirectsAndDuplicates(t *testing.T) {
	cfg := viewsConfig(t, `[
		{"name": "about", "pattern": "/about", "view": "about"},
		{"name": "about-alias", "pattern": "/info", "view": "about"},
		{"name": "old-home", "pattern": "/home", "redirect": "/"},
		{"name": "explore", "pattern": "/explore", "view": "explore"}
	]`)
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "about", "l10n.json"), `{"v.a":"V"}`)
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "explore", "l10n.json"), `{"e.a":"E"}`)

	views, err := LoadViews(cfg)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "about", views[0].Name)
	assert.Equal(t, catalog.Table{"v.a": "V"}, views[0].Defaults)
	assert.Equal(t, "explore", views[1].Name)
}

func TestLoadViewsResourceNameOverride(t *testing.T) {
	cfg := viewsConfig(t, `[{"name": "wedo2", "pattern": "/wedo", "view": "wedo2"}]`)
	cfg.ResourceNames = map[string]string{"wedo2": "wedo-legacy"}
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "wedo2", "l10n.json"), `{}`)

	views, err := LoadViews(cfg)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "wedo-legacy", views[0].Resource)
}

func TestLoadViewsMissingDefaultsWithTemplateIsFatal(t *testing.T) {
	cfg := viewsConfig(t, `[{"name": "about", "pattern": "/about", "view": "about"}]`)
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "about", "about.jsx"), `render()`)

	_, err := LoadViews(cfg)
	assert.ErrorContains(t, err, "no l10n.json")
}

func TestLoadViewsMissingDefaultsWithoutTemplateIsTolerated(t *testing.T) {
	cfg := viewsConfig(t, `[{"name": "conference", "pattern": "/conference", "view": "conference"}]`)

	views, err := LoadViews(cfg)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Nil(t, views[0].Defaults)
}

func TestLoadViewsMalformedRouteTableIsFatal(t *testing.T) {
	cfg := viewsConfig(t, `[{"name":`)

	_, err := LoadViews(cfg)
	assert.Error(t, err)
}

func TestAssetURLsFallBackPerKey(t *testing.T) {
	v := View{
		Assets: map[string]map[string]string{
			"guide-pdf":    {"en": "https://cdn/en/guide.pdf", "es": "https://cdn/es/guide.pdf"},
			"poster-image": {"en": "https://cdn/en/poster.png"},
		},
	}

	assert.Equal(t, map[string]string{
		"guide-pdf":    "https://cdn/es/guide.pdf",
		"poster-image": "https://cdn/en/poster.png",
	}, v.AssetURLs("es"))

	assert.Equal(t, map[string]string{
		"guide-pdf":    "https://cdn/en/guide.pdf",
		"poster-image": "https://cdn/en/poster.png",
	}, v.AssetURLs("en"))
}

func TestLoadViewsReadsAssetTable(t *testing.T) {
	cfg := viewsConfig(t, `[{"name": "download", "pattern": "/download", "view": "download"}]`)
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "download", "l10n.json"), `{}`)
	writeFile(t, filepath.Join(cfg.App.ViewsDir, "download", "l10n-static.json"),
		`{"installer": {"en": "https://cdn/en/installer.exe"}}`)

	views, err := LoadViews(cfg)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "https://cdn/en/installer.exe", views[0].Assets["installer"]["en"])
}
