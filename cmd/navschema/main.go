// Command navschema emits a JSON Schema document describing the
// designer-facing config surfaces (NavigationConfig and the unit archetype
// roster contract) so editor tooling can validate authored files before
// they reach the simulation, grounded on the teacher's
// effects/catalog/cmd/schema tool.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"

	"navcore/internal/agent"
	"navcore/internal/world"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema bundle")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	bundle := buildBundle()

	if err := writeBundle(outPath, bundle); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildBundle() *orderedmap.OrderedMap {
	reflector := jsonschema.Reflector{AllowAdditionalProperties: true}

	navSchema := reflector.Reflect(new(world.NavigationConfig))
	navSchema.Title = "Navigation Config"
	navSchema.Description = "World-singleton config driving chunk streaming, bake, and pathfinding"

	archetypeSchema := reflector.Reflect(new(agent.ArchetypeFile))
	archetypeSchema.Title = "Unit Archetype Roster"
	archetypeSchema.Description = "Designer-authored roster of spawnable combat unit definitions"

	// orderedmap gives a stable key order across runs so generated bundles
	// diff cleanly in version control, independent of Go map iteration order.
	bundle := orderedmap.New()
	bundle.Set("navigationConfig", navSchema)
	bundle.Set("unitArchetypes", archetypeSchema)
	return bundle
}

func writeBundle(outPath string, bundle *orderedmap.OrderedMap) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema bundle: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
