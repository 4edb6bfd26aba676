package core

import (
	"encoding/json"
)

type ManifestEntry struct {
	File string `json:"file"`
	Hash string `json:"hash"`
	Size int    `json:"size"`
}

type Manifest struct {
	Entries map[string]ManifestEntry `json:"entries"`
}

func NewManifest() *Manifest {
	return &Manifest{Entries: make(map[string]ManifestEntry)}
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Entries == nil {
		m.Entries = make(map[string]ManifestEntry)
	}
	return &m, nil
}

func (m *Manifest) Add(logical string, file string, content []byte) ManifestEntry {
	entry := ManifestEntry{
		File: file,
		Hash: HashContent(content),
		Size: len(content),
	}
	m.Entries[logical] = entry
	return entry
}

// Resolve returns the built file for a logical asset name, or the logical
// name itself when the manifest has no entry.
func (m *Manifest) Resolve(logical string) string {
	if m != nil {
		if entry, ok := m.Entries[logical]; ok && entry.File != "" {
			return entry.File
		}
	}
	return logical
}

func (m *Manifest) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
