package unit

import (
	"context"
	"testing"
	"time"

	"sheet2neo/internal/extract"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/target"
)

func newOrchestrator(client target.Client) *hierarchy.Orchestrator {
	return hierarchy.NewOrchestrator(client, 1, time.Millisecond, nil)
}

func sampleNodes() []hierarchy.Node {
	return []hierarchy.Node{
		{Level: 1, Name: "North", ShortName: "North", Code: hierarchy.DeriveCode("North")},
		{Level: 2, Name: "N1", ShortName: "N1", Code: hierarchy.DeriveCode("N1"), ParentName: "North"},
		{Level: 2, Name: "N2", ShortName: "N2", Code: hierarchy.DeriveCode("N2"), ParentName: "North"},
	}
}

func TestUpsertHierarchyResolvesParentReferences(t *testing.T) {
	store := newMemoryTarget()
	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), sampleNodes(), 2)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(report.Mappings) != 3 {
		t.Fatalf("expect 3 mappings, got %d", len(report.Mappings))
	}
	if report.Failed() != 0 {
		t.Fatalf("expect no failures, got %d", report.Failed())
	}

	parentID := report.Mappings["North"]
	if parentID == "" {
		t.Fatalf("parent must be mapped")
	}
	child, ok := store.byCode(hierarchy.DeriveCode("N1"))
	if !ok {
		t.Fatalf("child N1 not stored")
	}
	if child.ParentID != parentID {
		t.Fatalf("child parent id %q != mapped parent %q", child.ParentID, parentID)
	}
	if child.Level != 2 {
		t.Fatalf("expect level 2, got %d", child.Level)
	}
}

func TestUpsertHierarchySkipsOrphans(t *testing.T) {
	store := newMemoryTarget()
	nodes := []hierarchy.Node{
		{Level: 2, Name: "Lost", ShortName: "Lost", Code: hierarchy.DeriveCode("Lost"), ParentName: "Ghost"},
	}

	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 2)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(report.Mappings) != 0 {
		t.Fatalf("orphan must not produce mappings, got %v", report.Mappings)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expect exactly one audit entry, got %d", len(report.Entries))
	}
	if report.Entries[0].Status != hierarchy.StatusSkipped {
		t.Fatalf("expect skipped entry, got %s", report.Entries[0].Status)
	}
	if store.creates != 0 {
		t.Fatalf("orphan must not reach the target system, got %d creates", store.creates)
	}
}

func TestUpsertHierarchyOrphanSkipCascades(t *testing.T) {
	store := newMemoryTarget()
	nodes := []hierarchy.Node{
		{Level: 2, Name: "Lost", ShortName: "Lost", Code: hierarchy.DeriveCode("Lost"), ParentName: "Ghost"},
		{Level: 3, Name: "Lost-child", ShortName: "Lost-child", Code: hierarchy.DeriveCode("Lost-child"), ParentName: "Lost"},
	}

	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 3)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expect 2 entries, got %d", len(report.Entries))
	}
	for _, e := range report.Entries {
		if e.Status != hierarchy.StatusSkipped {
			t.Fatalf("expect cascading skip, got %s for %s", e.Status, e.Name)
		}
	}
}

func TestUpsertHierarchyIsIdempotent(t *testing.T) {
	store := newMemoryTarget()
	nodes := sampleNodes()

	first, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 2)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 2)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if store.creates != 3 {
		t.Fatalf("second run must not create again, got %d creates", store.creates)
	}
	if store.updates != 0 {
		t.Fatalf("unchanged nodes must not be updated, got %d updates", store.updates)
	}
	for _, e := range second.Entries {
		if e.Status != hierarchy.StatusUnchanged {
			t.Fatalf("expect unchanged on second run, got %s for %s", e.Status, e.Name)
		}
	}
	for name, id := range first.Mappings {
		if second.Mappings[name] != id {
			t.Fatalf("mapping for %s drifted: %s -> %s", name, id, second.Mappings[name])
		}
	}
}

func TestUpsertHierarchyUpdatesChangedNodes(t *testing.T) {
	store := newMemoryTarget()
	nodes := sampleNodes()

	if _, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 2); err != nil {
		t.Fatalf("first run: %v", err)
	}

	changed := sampleNodes()
	changed[1].ShortName = "N1-renamed"
	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), changed, 2)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if store.updates != 1 {
		t.Fatalf("expect exactly one update, got %d", store.updates)
	}
	var found bool
	for _, e := range report.Entries {
		if e.Name == "N1" && e.Status == hierarchy.StatusUpdated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expect N1 reported as updated, entries: %v", report.Entries)
	}
}

func TestUpsertHierarchyReportsDuplicates(t *testing.T) {
	store := newMemoryTarget()
	nodes := []hierarchy.Node{
		{Level: 1, Name: "North", ShortName: "North", Code: hierarchy.DeriveCode("North")},
		{Level: 1, Name: "North", ShortName: "North again", Code: hierarchy.DeriveCode("North")},
	}

	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 1)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("first writer wins, expect 1 create, got %d", store.creates)
	}
	var dup bool
	for _, e := range report.Entries {
		if e.Status == hierarchy.StatusDuplicate {
			dup = true
		}
	}
	if !dup {
		t.Fatalf("expect a duplicate audit entry, entries: %v", report.Entries)
	}
}

func TestUpsertHierarchyContinuesAfterConflict(t *testing.T) {
	store := newMemoryTarget()
	conflictCode := hierarchy.DeriveCode("North")
	store.units[conflictCode] = []target.Unit{
		{ID: "unit-a", Code: conflictCode},
		{ID: "unit-b", Code: conflictCode},
	}
	nodes := []hierarchy.Node{
		{Level: 1, Name: "North", ShortName: "North", Code: conflictCode},
		{Level: 1, Name: "South", ShortName: "South", Code: hierarchy.DeriveCode("South")},
	}

	report, err := newOrchestrator(store).UpsertHierarchy(context.Background(), nodes, 1)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if report.Failed() != 1 {
		t.Fatalf("expect 1 failed entry, got %d", report.Failed())
	}
	if _, ok := report.Mappings["South"]; !ok {
		t.Fatalf("conflict on one node must not block the rest")
	}
}

func TestBuildNodesFromScanResult(t *testing.T) {
	scan := &extract.ScanResult{
		UniqueValues: map[string][]string{
			"region": {"North", "South"},
			"zone":   {"N1", "S1"},
		},
		ParentMap: map[string]string{
			"N1": "North",
			"S1": "South",
		},
	}

	nodes := hierarchy.BuildNodes(scan, []string{"region", "zone"})
	if len(nodes) != 4 {
		t.Fatalf("expect 4 nodes, got %d", len(nodes))
	}
	if nodes[0].Level != 1 || nodes[0].ParentName != "" {
		t.Fatalf("level 1 nodes have no parent, got %+v", nodes[0])
	}
	var n1 hierarchy.Node
	for _, n := range nodes {
		if n.Name == "N1" {
			n1 = n
		}
	}
	if n1.Level != 2 || n1.ParentName != "North" {
		t.Fatalf("expect N1 at level 2 under North, got %+v", n1)
	}
	if n1.Code == "" || n1.Code != hierarchy.DeriveCode("N1") {
		t.Fatalf("code must derive from name, got %q", n1.Code)
	}
}
