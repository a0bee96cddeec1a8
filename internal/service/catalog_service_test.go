package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/catalog"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

func TestCatalogServiceDefaults(t *testing.T) {
	svc := NewCatalogService(nil, zap.NewNop())
	assert.Equal(t, len(catalog.Default), svc.Size())

	results := svc.Search("INT108")
	require.NotEmpty(t, results)
	assert.Equal(t, "INT108", results[0].Code)
	assert.Empty(t, svc.Search("   "))
}

func TestCatalogServiceCustomItems(t *testing.T) {
	svc := NewCatalogService([]models.CatalogItem{{Code: "ABC100", Name: "Quantum Widgets", Credits: 2}}, nil)
	results := svc.Search("quantum")
	require.Len(t, results, 1)
	assert.Equal(t, "ABC100", results[0].Code)
}

func TestLoadCatalogFile(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"code", "name", "credits"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"XYZ201", "Applied Widgets", 3}))
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	items, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.CatalogItem{{Code: "XYZ201", Name: "Applied Widgets", Credits: 3}}, items)

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	empty := excelize.NewFile()
	emptyPath := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, empty.SaveAs(emptyPath))
	_, err = LoadCatalogFile(emptyPath)
	assert.Error(t, err)
	_ = os.Remove(emptyPath)
}
