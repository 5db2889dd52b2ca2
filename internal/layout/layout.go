// Package layout resolves the on-disk layout of a hand asset.
//
//	<source>/<asset>/urdf/<model>.urdf    input
//	<source>/<asset>/usd/<model>.usd      output
//	<source>/<asset>/config/<model>.yaml  output
package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultAsset = "inspire_hand_with_sensors"
	DefaultModel = "inspire_hand_processed_with_pads"
)

// Layout holds the resolved paths of one asset.
type Layout struct {
	SourceDir string `json:"source_dir"`
	AssetDir  string `json:"asset_dir"`
	URDFPath  string `json:"urdf_path"`
	USDPath   string `json:"usd_path"`
	YAMLPath  string `json:"yaml_path"`
}

// Resolve computes the layout rooted at sourceDir. Empty asset or model
// names fall back to the defaults. Resolve does not touch the filesystem.
func Resolve(sourceDir, asset, model string) Layout {
	if asset == "" {
		asset = DefaultAsset
	}
	if model == "" {
		model = DefaultModel
	}
	assetDir := filepath.Join(sourceDir, asset)
	return Layout{
		SourceDir: sourceDir,
		AssetDir:  assetDir,
		URDFPath:  filepath.Join(assetDir, "urdf", model+".urdf"),
		USDPath:   filepath.Join(assetDir, "usd", model+".usd"),
		YAMLPath:  filepath.Join(assetDir, "config", model+".yaml"),
	}
}

// EnsureOutputDirs creates the parent directories of the USD and YAML
// outputs. Existing directories are left alone.
func (l Layout) EnsureOutputDirs() error {
	for _, p := range []string{l.USDPath, l.YAMLPath} {
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}
