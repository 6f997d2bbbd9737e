package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Desmondshah/Comic-restor-sub000/internal/pipeline"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

// loadPreset overlays a JSON preset on the default configuration. Fields the
// preset omits keep their defaults. A "prepress" object enables separation;
// "matte": null disables matte compensation.
func loadPreset(path string) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading preset: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return cfg, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	pc := prepress.DefaultConfig()
	cfg.Prepress = &pc
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	if _, ok := keys["prepress"]; !ok {
		cfg.Prepress = nil
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("preset %s: %w", path, err)
	}
	return cfg, nil
}

func loadReference(path string) (*stats.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference: %w", err)
	}
	ref := &stats.Reference{}
	if err := json.Unmarshal(data, ref); err != nil {
		return nil, fmt.Errorf("parsing reference %s: %w", path, err)
	}
	return ref, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
