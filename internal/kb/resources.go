package kb

import (
	"encoding/json"
	"fmt"
	"os"

	"vqabuild/internal/config"
	"vqabuild/internal/models"
)

// AliasEntry is the title/alias record for one knowledge-base article.
type AliasEntry struct {
	EntityID string   `json:"entity_id"`
	Title    string   `json:"title"`
	Aliases  []string `json:"aliases,omitempty"`
}

// AliasIndex maps a knowledge-base article identifier to its entry.
type AliasIndex map[string]AliasEntry

// AttributeTable maps an entity identifier to its harvested attributes.
type AttributeTable map[string]models.EntityAttributes

// ImageTable maps an entity identifier to its ranked image candidates.
type ImageTable map[string][]models.ImageCandidate

// Resources are the shared read-only tables the pipeline needs. They are
// loaded once at startup and shared by reference across workers; nothing
// mutates them after Load returns.
type Resources struct {
	Aliases    AliasIndex
	Attributes AttributeTable
	Images     ImageTable
}

// Load reads the alias index, attribute table and image table. Any failure
// here is fatal to the run; the pipeline never starts with partial tables.
func Load(cfg config.Config) (*Resources, error) {
	r := &Resources{}
	if err := readJSONFile(cfg.AliasIndexPath, &r.Aliases); err != nil {
		return nil, fmt.Errorf("load alias index: %w", err)
	}
	if err := readJSONFile(cfg.AttributesPath, &r.Attributes); err != nil {
		return nil, fmt.Errorf("load attribute table: %w", err)
	}
	if err := readJSONFile(cfg.ImagesPath, &r.Images); err != nil {
		return nil, fmt.Errorf("load image table: %w", err)
	}
	return r, nil
}

// AttributesFor looks up an entity's attributes. The boolean is false when
// the attribute table does not cover the entity (a per-record data fault,
// not a fatal condition).
func (r *Resources) AttributesFor(entityID string) (models.EntityAttributes, bool) {
	a, ok := r.Attributes[entityID]
	return a, ok
}

// ImagesFor returns the entity's image candidates, preferring the dedicated
// image table over any images embedded in the attribute record.
func (r *Resources) ImagesFor(entityID string) []models.ImageCandidate {
	if imgs, ok := r.Images[entityID]; ok && len(imgs) > 0 {
		return imgs
	}
	if a, ok := r.Attributes[entityID]; ok {
		return a.Images
	}
	return nil
}

func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
