package grid

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/taskgrid/internal/ctxlog"
)

// Load reads every grid file reachable from path and merges them into a
// single validated model. Block names must be unique within their kind
// across all loaded files.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findGridFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to discover grid files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no grid files found under '%s'", path)
	}
	logger.Debug("Discovered grid files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse '%s': %w", file, diags)
		}

		var content fileContent
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &content); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode '%s': %w", file, diags)
		}

		model.Tasks = append(model.Tasks, content.Tasks...)
		model.Maps = append(model.Maps, content.Maps...)
		model.Reduces = append(model.Reduces, content.Reduces...)
	}

	if err := validate(model); err != nil {
		return nil, err
	}
	logger.Debug("Grid model loaded.", "tasks", len(model.Tasks), "maps", len(model.Maps), "reduces", len(model.Reduces))
	return model, nil
}

// validate rejects duplicate block names and unknown reduce forms up front,
// before anything is submitted.
func validate(model *Model) error {
	seen := make(map[string]bool)
	check := func(kind, name string) error {
		key := fmt.Sprintf("%s.%s", kind, name)
		if seen[key] {
			return fmt.Errorf("duplicate block name '%s'", key)
		}
		seen[key] = true
		return nil
	}

	for _, t := range model.Tasks {
		if err := check(kindTask, t.Name); err != nil {
			return err
		}
	}
	for _, m := range model.Maps {
		if err := check(kindMap, m.Name); err != nil {
			return err
		}
	}
	for _, r := range model.Reduces {
		if err := check(kindReduce, r.Name); err != nil {
			return err
		}
		switch r.Form {
		case "", FormChain, FormTree:
		default:
			return fmt.Errorf("reduce '%s': unknown form '%s' (want '%s' or '%s')", r.Name, r.Form, FormChain, FormTree)
		}
	}
	return nil
}
