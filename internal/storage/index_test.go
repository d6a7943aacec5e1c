package storage

import (
	"context"
	"os"
	"testing"

	"screenwright/internal/element"
	"screenwright/internal/fountain"
)

func indexTestDocument() fountain.Document {
	return fountain.Document{
		Metadata: element.Metadata{TitlePage: map[string]string{"title": "Index Test"}},
		Elements: []element.ScriptElement{
			{Kind: element.KindSectionHeading, SectionDepth: 1, Text: "Index Test"},
			{Kind: element.KindSectionHeading, SectionDepth: 2, Text: "CHAPTER 1"},
			{Kind: element.KindSectionHeading, SectionDepth: 3, Text: "OPENING"},
			{Kind: element.KindSceneHeading, Text: "INT. COFFEE SHOP - DAY", SceneID: "scene-1", SceneNumber: "1"},
			{Kind: element.KindAction, Text: "Steam."},
			{Kind: element.KindSceneHeading, Text: "EXT. COFFEE SHOP - NIGHT", SceneID: "scene-2", SceneNumber: "2"},
			{Kind: element.KindSceneHeading, Text: "INT. OFFICE - DAY", SceneID: "scene-3", SceneNumber: "3"},
		},
	}
}

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestRebuildIndexPopulatesScenesAndLocations(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	doc := indexTestDocument()

	if err := RebuildIndex(ctx, root, doc); err != nil {
		t.Fatalf("RebuildIndex error: %v", err)
	}

	scenes, err := ListScenes(ctx, root)
	if err != nil {
		t.Fatalf("ListScenes error: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("scene rows = %d, want 3", len(scenes))
	}
	first := scenes[0]
	if first.Slugline != "INT. COFFEE SHOP - DAY" || first.SceneID != "scene-1" {
		t.Fatalf("first scene row wrong: %+v", first)
	}
	if first.Chapter != "CHAPTER 1" || first.SceneGroup != "OPENING" {
		t.Fatalf("chapter/group context lost: %+v", first)
	}
	if first.LocationKey != "COFFEE SHOP" || first.Lighting != "interior" || first.TimeOfDay != "DAY" {
		t.Fatalf("location facets wrong: %+v", first)
	}
	if first.SceneNumber != "1" {
		t.Fatalf("scene number not indexed: %+v", first)
	}

	locations, err := ListLocations(ctx, root)
	if err != nil {
		t.Fatalf("ListLocations error: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("location rows = %d, want 2", len(locations))
	}
	// Ordered by descending scene count.
	if locations[0].LocationKey != "COFFEE SHOP" || locations[0].SceneCount != 2 {
		t.Fatalf("top location wrong: %+v", locations[0])
	}
	if locations[1].LocationKey != "OFFICE" || locations[1].SceneCount != 1 {
		t.Fatalf("second location wrong: %+v", locations[1])
	}
}

func TestRebuildIndexIsIdempotent(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	doc := indexTestDocument()

	if err := RebuildIndex(ctx, root, doc); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	if err := RebuildIndex(ctx, root, doc); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	scenes, err := ListScenes(ctx, root)
	if err != nil {
		t.Fatalf("ListScenes error: %v", err)
	}
	if len(scenes) != 3 {
		t.Fatalf("rebuild duplicated rows: %d", len(scenes))
	}
}

func TestRebuildIndexDropsRemovedScenes(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	doc := indexTestDocument()

	if err := RebuildIndex(ctx, root, doc); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	doc.Elements = doc.Elements[:len(doc.Elements)-1] // drop the office scene
	if err := RebuildIndex(ctx, root, doc); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	scenes, err := ListScenes(ctx, root)
	if err != nil {
		t.Fatalf("ListScenes error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("stale rows kept: %d", len(scenes))
	}
	locations, err := ListLocations(ctx, root)
	if err != nil {
		t.Fatalf("ListLocations error: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("stale locations kept: %d", len(locations))
	}
}
