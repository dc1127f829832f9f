package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/ensurefill/internal/model"
)

// DefaultInventoryPath returns the default file path for the preset
// inventory. This is located at ~/.ensurefill/inventory.yaml.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ensurefill", "inventory.yaml"), nil
}

// SaveInventory writes the inventory to the specified file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeFile(path, inv)
}

// LoadInventory reads the inventory from the specified file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := unmarshal(path, data, &inv); err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return model.DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory imports presets from a file, merging them with the
// existing inventory. Duplicate IDs are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := unmarshal(path, data, &imported); err != nil {
		return existing, err
	}

	nozzleIDs := make(map[string]bool, len(existing.Nozzles))
	for _, n := range existing.Nozzles {
		nozzleIDs[n.ID] = true
	}
	filamentIDs := make(map[string]bool, len(existing.Filaments))
	for _, f := range existing.Filaments {
		filamentIDs[f.ID] = true
	}

	for _, n := range imported.Nozzles {
		if !nozzleIDs[n.ID] {
			existing.Nozzles = append(existing.Nozzles, n)
			nozzleIDs[n.ID] = true
		}
	}
	for _, f := range imported.Filaments {
		if !filamentIDs[f.ID] {
			existing.Filaments = append(existing.Filaments, f)
			filamentIDs[f.ID] = true
		}
	}

	return existing, nil
}
