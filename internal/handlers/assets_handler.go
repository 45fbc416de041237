package handlers

import (
	"bytes"
	_ "embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"text/template"
)

//go:embed sw.js.tmpl
var serviceWorkerTemplate string

// AssetsHandler serves the static client files and the offline cache worker
type AssetsHandler struct {
	staticPath string
	worker     []byte
}

// NewAssetsHandler renders the service worker once with the files found
// under staticPath
func NewAssetsHandler(staticPath, cacheVersion string) (*AssetsHandler, error) {
	assets, err := listAssets(staticPath)
	if err != nil {
		return nil, fmt.Errorf("list static assets: %w", err)
	}

	tmpl, err := template.New("sw.js").Parse(serviceWorkerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse service worker template: %w", err)
	}

	var buf bytes.Buffer
	data := map[string]interface{}{
		"CacheName": cacheVersion,
		"Files":     assets,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render service worker: %w", err)
	}

	return &AssetsHandler{staticPath: staticPath, worker: buf.Bytes()}, nil
}

// ServiceWorker serves the rendered sw.js
func (h *AssetsHandler) ServiceWorker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(h.worker)
}

// Static serves files from the static directory
func (h *AssetsHandler) Static() http.Handler {
	return http.FileServer(http.Dir(h.staticPath))
}

// listAssets returns slash-separated paths of every regular file under root
func listAssets(root string) ([]string, error) {
	var assets []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		assets = append(assets, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(assets)
	return assets, nil
}
