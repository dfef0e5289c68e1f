package holiday

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of a holiday calendar seed. Entries without a
// scope default to global; scoped entries name the owning department or batch.
//
//	holidays:
//	  - date: 2024-01-26
//	    name: Republic Day
//	  - date: 2024-09-05
//	    name: Department Foundation Day
//	    scope: department
//	    scope_id: dept-cse
type seedFile struct {
	Holidays []seedEntry `yaml:"holidays"`
}

type seedEntry struct {
	Date        string `yaml:"date"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Scope       string `yaml:"scope"`
	ScopeID     string `yaml:"scope_id"`
}

// LoadSeedFile parses a YAML holiday calendar used to bootstrap the holiday
// store. IDs are left blank; the caller assigns them on insert.
func LoadSeedFile(path string) ([]Holiday, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("holiday: reading seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes seed YAML into holiday records.
func ParseSeed(raw []byte) ([]Holiday, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("holiday: parsing seed file: %w", err)
	}

	holidays := make([]Holiday, 0, len(file.Holidays))
	for i, entry := range file.Holidays {
		date, err := time.Parse(time.DateOnly, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday: seed entry %d: invalid date %q: %w", i, entry.Date, err)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("holiday: seed entry %d: name is required", i)
		}

		scope := ScopeGlobal
		if entry.Scope != "" {
			scope, err = ParseScope(entry.Scope)
			if err != nil {
				return nil, fmt.Errorf("holiday: seed entry %d: %w", i, err)
			}
		}
		if scope != ScopeGlobal && entry.ScopeID == "" {
			return nil, fmt.Errorf("holiday: seed entry %d: scope %q requires scope_id", i, scope)
		}

		holidays = append(holidays, Holiday{
			Date:        date,
			Name:        entry.Name,
			Description: entry.Description,
			Scope:       scope,
			ScopeID:     entry.ScopeID,
		})
	}
	return holidays, nil
}
