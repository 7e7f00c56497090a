package workflow

import (
	"encoding/json"
	"os"
)

// ArtifactStatus describes what is on disk for one phase.
type ArtifactStatus struct {
	Contract    Contract
	Path        string
	Exists      bool
	ValidJSON   bool
	MissingKeys []string
}

// Inspect checks every phase's workflow file in the store.
func Inspect(s *Store) []ArtifactStatus {
	var out []ArtifactStatus
	for _, c := range Contracts() {
		st := ArtifactStatus{Contract: c, Path: s.Path(c.WorkflowFile)}
		data, err := os.ReadFile(st.Path)
		if err != nil {
			out = append(out, st)
			continue
		}
		st.Exists = true
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err == nil {
			st.ValidJSON = true
			for _, k := range c.ExpectedKeys {
				if _, ok := obj[k]; !ok {
					st.MissingKeys = append(st.MissingKeys, k)
				}
			}
		} else {
			st.ValidJSON = json.Valid(data)
		}
		out = append(out, st)
	}
	return out
}
