package report

import (
	"encoding/json"
	"os"
)

func WriteJSONToFile(r *Results, path string) error {
	b, _ := json.MarshalIndent(r, "", "  ")
	return os.WriteFile(path, b, 0o644)
}

func MergeJSONFiles(paths []string) (*Results, error) {
	var out Results
	for i, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil { return nil, err }
		var r Results
		if err := json.Unmarshal(b, &r); err != nil { return nil, err }
		if i == 0 {
			out = r
			continue
		}
		out.Findings = append(out.Findings, r.Findings...)
		out.Targets = append(out.Targets, r.Targets...)
		out.Notes = append(out.Notes, r.Notes...)
	}
	return &out, nil
}
