/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"screenwright/internal/browser"
	"screenwright/internal/element"
	"screenwright/internal/fountain"
	"screenwright/internal/location"
	applog "screenwright/internal/log"
	"screenwright/internal/outline"
	"screenwright/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".swr"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .swr/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist. The returned *sql.DB is ready for use.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .swr dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .swr dir: %w", err)
	}

	path := IndexPath(projectRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the scene/location tables if they do not exist.
// The index is derived entirely from the element stream and is rebuildable
// and disposable by design.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS scenes (
			scene_idx    INTEGER PRIMARY KEY,
			scene_id     TEXT,
			slugline     TEXT NOT NULL,
			scene_number TEXT,
			chapter      TEXT,
			scene_group  TEXT,
			location_key TEXT,
			lighting     TEXT,
			time_of_day  TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scenes_location ON scenes(location_key);`,

		`CREATE TABLE IF NOT EXISTS locations (
			location_key     TEXT PRIMARY KEY,
			scene_count      INTEGER NOT NULL,
			first_scene_idx  INTEGER NOT NULL,
			representative   TEXT
		);`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			ts       TEXT NOT NULL,
			doc_blob BLOB NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create index schema: %w", err)
		}
	}
	return nil
}

// SceneRow is one indexed scene as stored in the scenes table.
type SceneRow struct {
	SceneIdx    int
	SceneID     string
	Slugline    string
	SceneNumber string
	Chapter     string
	SceneGroup  string
	LocationKey string
	Lighting    string
	TimeOfDay   string
}

// LocationRow is one indexed location as stored in the locations table.
type LocationRow struct {
	LocationKey    string
	SceneCount     int
	FirstSceneIdx  int
	Representative string
}

// RebuildIndex drops and refills the scenes and locations tables from the
// document's element stream, running the outline builder and browser
// assembler to recover chapter/group context for each scene.
func RebuildIndex(ctx context.Context, projectRoot string, doc fountain.Document) error {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_rebuild").With(
		slog.String("root", projectRoot),
	)
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	nodes := outline.Build(doc.Elements, doc.Metadata)
	data := browser.Assemble(nodes, doc.Elements)
	groups := location.GroupByLocation(doc.Elements)

	// Scene position in the stream, keyed by scene id then slugline.
	posByID := make(map[string]int)
	posByText := make(map[string]int)
	idx := 0
	for _, el := range doc.Elements {
		if el.Kind != element.KindSceneHeading {
			continue
		}
		if el.SceneID != "" {
			posByID[el.SceneID] = idx
		}
		t := strings.TrimSpace(el.Text)
		if _, seen := posByText[t]; !seen {
			posByText[t] = idx
		}
		idx++
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear scenes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear locations: %w", err)
	}

	sceneCount := 0
	for _, ch := range data.Chapters {
		for _, g := range ch.SceneGroups {
			for _, s := range g.Scenes {
				pos, ok := posByID[s.SceneID]
				if !ok {
					pos, ok = posByText[s.Slugline]
					if !ok {
						pos = sceneCount
					}
				}
				var lkey, lighting, tod string
				if s.SceneLocation != nil {
					lkey = s.SceneLocation.LocationKey
					lighting = s.SceneLocation.Lighting.String()
					tod = s.SceneLocation.TimeOfDay
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT OR REPLACE INTO scenes (scene_idx, scene_id, slugline, scene_number, chapter, scene_group, location_key, lighting, time_of_day)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					pos, s.SceneID, s.Slugline, sceneNumberFor(doc, s.SceneID), ch.Title, g.Title, lkey, lighting, tod); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("insert scene: %w", err)
				}
				sceneCount++
			}
		}
	}

	for key, g := range groups {
		first := 0
		if len(g.Scenes) > 0 {
			first = g.Scenes[0].SceneIndex
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO locations (location_key, scene_count, first_scene_idx, representative)
			 VALUES (?, ?, ?, ?)`,
			key, g.SceneCount(), first, g.RepresentativeLocation.FullLocation); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert location: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	l.Info("index rebuilt", slog.Int("scenes", sceneCount), slog.Int("locations", len(groups)))
	return nil
}

func sceneNumberFor(doc fountain.Document, sceneID string) string {
	if sceneID == "" {
		return ""
	}
	for _, el := range doc.Elements {
		if el.SceneID == sceneID {
			return el.SceneNumber
		}
	}
	return ""
}

// ListScenes returns the indexed scenes in stream order.
func ListScenes(ctx context.Context, projectRoot string) ([]SceneRow, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx,
		`SELECT scene_idx, scene_id, slugline, scene_number, chapter, scene_group, location_key, lighting, time_of_day
		 FROM scenes ORDER BY scene_idx`)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []SceneRow
	for rows.Next() {
		var r SceneRow
		var sid, num, ch, grp, lkey, light, tod sql.NullString
		if err := rows.Scan(&r.SceneIdx, &sid, &r.Slugline, &num, &ch, &grp, &lkey, &light, &tod); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		r.SceneID, r.SceneNumber, r.Chapter = sid.String, num.String, ch.String
		r.SceneGroup, r.LocationKey, r.Lighting, r.TimeOfDay = grp.String, lkey.String, light.String, tod.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListLocations returns the indexed locations ordered by descending scene
// count, then first appearance.
func ListLocations(ctx context.Context, projectRoot string) ([]LocationRow, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx,
		`SELECT location_key, scene_count, first_scene_idx, representative
		 FROM locations ORDER BY scene_count DESC, first_scene_idx ASC`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []LocationRow
	for rows.Next() {
		var r LocationRow
		var rep sql.NullString
		if err := rows.Scan(&r.LocationKey, &r.SceneCount, &r.FirstSceneIdx, &rep); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		r.Representative = rep.String
		out = append(out, r)
	}
	return out, rows.Err()
}
