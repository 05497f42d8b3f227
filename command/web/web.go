package web

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"rs-flow/connectors/config"
	"rs-flow/domain/rs"
)

// Run starts a small Echo web server exposing the preprocessed JSON
// artifacts and an optional SPA dashboard.
//
// Usage:
//
//	rs-flow web [-addr :8080] [-data ./public/data] [-ui ./ui/dist]
//
// Endpoints:
//
//	GET /api/years/:year/sankey               -> <data>/year_YYYY/sankey.json
//	GET /api/years/:year/statistics           -> <data>/year_YYYY/statistics.json
//	GET /api/years/:year/ministries           -> <data>/year_YYYY/ministries.json
//	GET /api/years/:year/ministry-projects    -> <data>/year_YYYY/ministry-projects.json
//	GET /api/years/:year/project-expenditures -> <data>/year_YYYY/project-expenditures.json
//	GET /api/projects                         -> <data>/project-index.json
//	GET /api/projects/:key                    -> <data>/projects/<key>.json
//
// When -ui points to a built Vite app (index.html exists), static files are
// served at / and unknown routes fall back to index.html for SPA routing.
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	dataDir := fs.String("data", "", "directory containing preprocessed JSON artifacts (default from config)")
	uiDir := fs.String("ui", "./ui/dist", "directory containing built UI (Vite dist)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataDir == "" {
		*dataDir = config.Resolve().Data.OutputPath
	}

	e := echo.New()

	yearArtifacts := map[string]string{
		"sankey":               "sankey.json",
		"statistics":           "statistics.json",
		"ministries":           "ministries.json",
		"ministry-projects":    "ministry-projects.json",
		"project-expenditures": "project-expenditures.json",
	}

	e.GET("/api/years/:year/:artifact", func(c echo.Context) error {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid year"})
		}
		file, ok := yearArtifacts[c.Param("artifact")]
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "unknown artifact"})
		}
		return serveArtifact(c, filepath.Join(*dataDir, rs.YearDir(year), file))
	})

	e.GET("/api/projects", func(c echo.Context) error {
		return serveArtifact(c, filepath.Join(*dataDir, "project-index.json"))
	})

	e.GET("/api/projects/:key", func(c echo.Context) error {
		key := c.Param("key")
		// Keys are hex digests; reject anything that could escape the
		// projects directory.
		if key == "" || strings.ContainsAny(key, "./\\") {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid project key"})
		}
		return serveArtifact(c, filepath.Join(*dataDir, "projects", key+".json"))
	})

	// Static UI (optional)
	indexPath := filepath.Join(*uiDir, "index.html")
	if fi, err := os.Stat(indexPath); err == nil && !fi.IsDir() {
		// Serve built assets under /
		e.Static("/", *uiDir)
		// Root path -> index.html
		e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

		// Fallback to index.html for non-API 404s (SPA routing) while keeping static assets working
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
				p := c.Request().URL.Path
				if !strings.HasPrefix(p, "/api") {
					_ = c.File(indexPath)
					return
				}
			}
			e.DefaultHTTPErrorHandler(err, c)
		}
	}

	return e.Start(*addr)
}

// serveArtifact streams a preprocessed JSON file as-is.
func serveArtifact(c echo.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSON(http.StatusNotFound, map[string]any{
				"error":   "file not found",
				"path":    path,
				"message": "artifact is missing; run preprocess first",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": fmt.Sprintf("failed to read %s", filepath.Base(path)),
		})
	}
	return c.JSONBlob(http.StatusOK, b)
}
