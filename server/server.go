// Package server provides a small HTTP server for previewing built locale bundles.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Blackcats4567/scratch-www/config"
	"github.com/Blackcats4567/scratch-www/locales"
)

func checkHTTPWithStatus(e error, w http.ResponseWriter, status int) (hadError bool) {
	if e != nil {
		w.WriteHeader(status)

		errMsg := e.Error()
		// Don't expose filesystem paths to the user
		if status == http.StatusNotFound {
			errMsg = "not found"
		}

		jsonErr := struct {
			Error string `json:"error"`
		}{
			Error: errMsg,
		}
		enc := json.NewEncoder(w)
		enc.Encode(jsonErr)

		return true
	}
	return false
}

// Gets list of views with a built bundle in the served directory
func listViewsHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := filepath.Glob(filepath.Join(dir, "*.intl.js"))
		if checkHTTPWithStatus(err, w, http.StatusInternalServerError) {
			return
		}

		var output struct {
			Views []string `json:"views"`
		}
		output.Views = make([]string, len(files))
		for i, f := range files {
			output.Views[i] = strings.TrimSuffix(filepath.Base(f), ".intl.js")
		}
		sort.Strings(output.Views)

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		checkHTTPWithStatus(enc.Encode(output), w, http.StatusInternalServerError)
	}
}

// Serves a single view's bundle
func bundleHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := mux.Vars(r)["view"]

		f, err := os.Open(filepath.Join(dir, locales.BundleFile(view)))
		if errors.Is(err, fs.ErrNotExist) {
			w.Header().Set("Content-Type", "application/json")
			checkHTTPWithStatus(err, w, http.StatusNotFound)
			return
		}
		if checkHTTPWithStatus(err, w, http.StatusInternalServerError) {
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/javascript")
		io.Copy(w, f)
	}
}

// NewRouter builds the preview server's router for the given bundle directory.
func NewRouter(dir string) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/views", listViewsHandler(dir)).Methods("GET")
	r.HandleFunc("/views/{view:[A-Za-z0-9_-]+}.intl.js", bundleHandler(dir)).Methods("GET")

	return r
}

func Serve(c config.Config) {
	r := NewRouter(c.Server.Dir)
	rWithMiddleWares := handlers.CombinedLoggingHandler(os.Stdout, r)

	fmt.Printf("Listening on port %v\n", c.Server.Port)
	http.ListenAndServe(fmt.Sprintf(":%v", c.Server.Port), rWithMiddleWares)
}
