package model

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yolovision/yolovision/internal/errors"
)

// Selector presents the available models and resolves a choice to one
// provisioned descriptor.
type Selector struct {
	registry    *Registry
	provisioner *Provisioner
}

// NewSelector creates a selector over a registry and provisioner.
func NewSelector(registry *Registry, provisioner *Provisioner) *Selector {
	return &Selector{registry: registry, provisioner: provisioner}
}

// PresentChoices returns the selectable models: local models first in
// discovery order, then remote catalog entries not already present locally.
// The slice is indexed 1-based from the user's point of view.
func (s *Selector) PresentChoices() ([]Descriptor, error) {
	local, err := s.registry.ScanLocal()
	if err != nil {
		return nil, err
	}

	choices := make([]Descriptor, 0, len(local)+len(knownCatalog))
	localIDs := make(map[string]bool, len(local))
	for _, desc := range local {
		choices = append(choices, desc)
		localIDs[desc.Identifier] = true
	}

	for _, entry := range KnownCatalog() {
		if !localIDs[entry.Identifier] {
			choices = append(choices, entry)
		}
	}

	return choices, nil
}

// ResolveChoice maps user input to one of the presented choices. Blank input
// selects the first entry; anything else must be a 1-based index within
// range. The function is pure: it never touches registry state or disk.
func ResolveChoice(input string, choices []Descriptor) (Descriptor, error) {
	if len(choices) == 0 {
		return Descriptor{}, errors.New(fmt.Errorf("%w: no models available", errors.ErrModelNotFound)).
			Component("selector").
			Category(errors.CategoryDiscovery).
			Build()
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return choices[0], nil
	}

	index, err := strconv.Atoi(trimmed)
	if err != nil {
		return Descriptor{}, errors.New(fmt.Errorf("%w: %q is not a number", errors.ErrInvalidSelection, trimmed)).
			Component("selector").
			Category(errors.CategoryValidation).
			Build()
	}
	if index < 1 || index > len(choices) {
		return Descriptor{}, errors.New(fmt.Errorf("%w: %d is out of range 1-%d", errors.ErrInvalidSelection, index, len(choices))).
			Component("selector").
			Category(errors.CategoryValidation).
			Build()
	}

	return choices[index-1], nil
}

// Select runs the full interactive selection: print the menu to w, read one
// choice from r, resolve it, and provision the model. The returned descriptor
// always has a usable LocalPath.
func (s *Selector) Select(ctx context.Context, r io.Reader, w io.Writer) (Descriptor, error) {
	choices, err := s.PresentChoices()
	if err != nil {
		return Descriptor{}, err
	}

	printMenu(w, choices)

	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return Descriptor{}, fmt.Errorf("error reading selection: %w", err)
	}

	chosen, err := ResolveChoice(input, choices)
	if err != nil {
		return Descriptor{}, err
	}

	return s.provisioner.EnsureLocal(ctx, chosen)
}

// SelectDefault resolves and provisions identifierOrPath without interaction.
func (s *Selector) SelectDefault(ctx context.Context, identifierOrPath string) (Descriptor, error) {
	desc, err := s.registry.Resolve(identifierOrPath)
	if err != nil {
		return Descriptor{}, err
	}
	return s.provisioner.EnsureLocal(ctx, desc)
}

func printMenu(w io.Writer, choices []Descriptor) {
	fmt.Fprintln(w, "Available models:")
	for i, desc := range choices {
		location := "remote catalog"
		if desc.LocalPath != "" {
			location = string(desc.Category)
		}
		size := float64(desc.SizeBytes) / (1024 * 1024)
		if desc.Tier != "" {
			fmt.Fprintf(w, "  %d. %s (%.1f MB, %s) [%s]\n", i+1, desc.Name(), size, location, desc.Tier)
		} else {
			fmt.Fprintf(w, "  %d. %s (%.1f MB, %s)\n", i+1, desc.Name(), size, location)
		}
	}
	fmt.Fprintf(w, "Select a model 1-%d or press Enter for the first: ", len(choices))
}
