package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root string, rel string, source string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
}

func rulesOf(violations []violation) []string {
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Rule)
	}
	return rules
}

func TestRepositoryContextsRespectBoundaries(t *testing.T) {
	assert.Empty(t, collectViolations(filepath.Join("..", "contexts")))
}

func TestCollectViolationsFlagsDomainLeaks(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "observer-experience/sample-service/domain/bad.go", `package domain

import (
	"atelier/contexts/observer-experience/other-service/ports"
	"atelier/internal/platform/db"
)

var _ = ports.X
var _ = db.X
`)

	rules := rulesOf(collectViolations(root))
	assert.Contains(t, rules, "cross-module imports are forbidden")
	assert.Contains(t, rules, "domain must not import runtime infrastructure")
	assert.Contains(t, rules, "domain import is outside explicit allowlist")
}

func TestCollectViolationsChecksPortsAndTransport(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "observer-experience/sample-service/ports/ports.go", `package ports

import (
	"atelier/contexts/observer-experience/sample-service/domain/entities"
	"gorm.io/gorm"
)

var _ = entities.X
var _ = gorm.X
`)
	writeSource(t, root, "observer-experience/sample-service/transport/http/dto.go", `package http

import "atelier/contexts/observer-experience/sample-service/adapters/memory"

var _ = memory.X
`)

	violations := collectViolations(root)
	rules := rulesOf(violations)
	assert.Contains(t, rules, "ports import is outside explicit allowlist")
	assert.Contains(t, rules, "transport must not import adapters")
	for _, v := range violations {
		assert.NotEqual(t, "atelier/contexts/observer-experience/sample-service/domain/entities", v.Import)
	}
}

func TestAdaptersMayImportInfrastructure(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "observer-experience/sample-service/adapters/postgres/repo.go", `package postgresadapter

import (
	"atelier/internal/platform/db"
	"gorm.io/gorm"
)

var _ = db.X
var _ = gorm.X
`)
	assert.Empty(t, collectViolations(root))
}
