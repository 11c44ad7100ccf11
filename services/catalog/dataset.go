package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is the durable form of the most recently accepted observation for
// one id. The file layout (id -> {rating, reviews}) is what the renderer
// reads; keep it stable.
type Entry struct {
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// Dataset maps product ids to their last accepted entries. Mutated only by
// the reconciliation engine, and only by whole-entry replacement so stale
// and fresh fields can never mix.
type Dataset map[string]Entry

// LoadDataset reads the dataset file. A missing file is an empty dataset
// (first run); an unreadable or corrupt file is fatal to the run.
func LoadDataset(path string) (Dataset, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds Dataset
	err = json.Unmarshal(contents, &ds)
	if err != nil {
		return nil, fmt.Errorf("corrupt dataset %s: %w", path, err)
	}
	if ds == nil {
		ds = Dataset{}
	}
	return ds, nil
}

func SaveDataset(path string, ds Dataset) error {
	contents, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0o644)
}

// Clone returns a copy the caller can mutate without touching the original.
func (ds Dataset) Clone() Dataset {
	out := make(Dataset, len(ds))
	for id, e := range ds {
		out[id] = e
	}
	return out
}
