// Package hcl_adapter loads plant definitions from HCL files.
//
// A file holds any number of labelled plant blocks whose attributes use the
// same names as the configuration mapping:
//
//	plant "north_field" {
//	  system_capacity_kw = 100.0
//	  panel_tilt_angle   = "lat"
//	  module_type        = 2
//	  layout_params      = { gcr = 0.4 }
//	}
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pvgridgo/internal/config"
	"github.com/specialistvlad/pvgridgo/internal/ctxlog"
	"github.com/specialistvlad/pvgridgo/internal/fsutil"
)

// Extension is the file extension this loader reads.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL plant loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot lists the top-level blocks allowed in a plant file.
type fileRoot struct {
	Plants []*plantBlock `hcl:"plant,block"`
}

type plantBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*config.RawPlant, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var plants []*config.RawPlant
	for _, file := range files {
		found, err := l.loadFile(ctx, parser, file)
		if err != nil {
			return nil, err
		}
		plants = append(plants, found...)
	}

	logger.Debug("HCL loading complete.", "plants", len(plants))
	return plants, nil
}

func (l *Loader) loadFile(ctx context.Context, parser *hclparse.Parser, path string) ([]*config.RawPlant, error) {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	plants := make([]*config.RawPlant, 0, len(root.Plants))
	for _, block := range root.Plants {
		values, err := blockValues(ctx, hclFile.Bytes, block)
		if err != nil {
			return nil, fmt.Errorf("plant %q in %s: %w", block.Name, path, err)
		}
		plants = append(plants, &config.RawPlant{
			Name:   block.Name,
			Source: path,
			Values: values,
		})
	}
	return plants, nil
}

// blockValues converts every attribute of a plant block into a native value.
func blockValues(ctx context.Context, src []byte, block *plantBlock) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx).With("plant", block.Name)

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		v, err := exprToNative(src, attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		logger.Debug("Decoded plant attribute.", "attribute", name, "go_type", fmt.Sprintf("%T", v), "hcl_range", attr.Expr.Range().String())
		values[name] = v
	}
	return values, nil
}
