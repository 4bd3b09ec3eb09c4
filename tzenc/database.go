package tzenc

import (
	"slices"
	"strings"

	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzmem"
)

// Database is the result of an encoding run.
// The footprint methods are computed from the current entries on every call.
type Database struct {
	Mode    Mode
	Config  tzcode.Config
	Sizes   tzmem.Sizes
	Version string

	Policies []EncodedPolicy // Sorted by name.
	Zones    []EncodedZone   // Sorted by name.

	// Strings is the global string table in index order. Extended mode only.
	Strings []string
	// StringsOrigSize is the size all interned occurrences would need without deduplication.
	StringsOrigSize int

	RemovedPolicies map[string]string
	RemovedZones    map[string]string
	NotablePolicies map[string]string
	NotableZones    map[string]string
}

// Policy returns the encoded policy with the given name, or nil.
func (db *Database) Policy(name string) *EncodedPolicy {
	i, ok := slices.BinarySearchFunc(db.Policies, name, func(p EncodedPolicy, name string) int {
		return strings.Compare(p.Name, name)
	})
	if !ok {
		return nil
	}
	return &db.Policies[i]
}

// Zone returns the encoded zone with the given name, or nil.
func (db *Database) Zone(name string) *EncodedZone {
	i, ok := slices.BinarySearchFunc(db.Zones, name, func(z EncodedZone, name string) int {
		return strings.Compare(z.Name, name)
	})
	if !ok {
		return nil
	}
	return &db.Zones[i]
}

// StringsSize returns the size of the global string table including NUL terminators.
func (db *Database) StringsSize() int {
	n := 0
	for _, s := range db.Strings {
		n += len(s) + 1
	}
	return n
}

// PolicyCounts returns the record counts of all policies.
func (db *Database) PolicyCounts() tzmem.Counts {
	var c tzmem.Counts
	for i := range db.Policies {
		c = c.Add(db.Policies[i].Counts())
	}
	return c
}

// ZoneCounts returns the record counts of all zones.
func (db *Database) ZoneCounts() tzmem.Counts {
	var c tzmem.Counts
	for i := range db.Zones {
		c = c.Add(db.Zones[i].Counts())
	}
	return c
}

// Counts returns the record counts of the whole database. In Extended mode
// formats and letters are counted once from the global string table and only
// the zone names are added.
func (db *Database) Counts() tzmem.Counts {
	c := db.PolicyCounts().Add(db.ZoneCounts())
	if db.Mode == Extended {
		c.StringBytes = db.StringsSize()
		for i := range db.Zones {
			c.StringBytes += len(db.Zones[i].Name) + 1
		}
	}
	return c
}

// PolicyFootprint returns the footprint of all policies.
func (db *Database) PolicyFootprint() tzmem.Footprint {
	return db.Sizes.Compute(db.PolicyCounts())
}

// ZoneFootprint returns the footprint of all zones with undeduplicated strings.
func (db *Database) ZoneFootprint() tzmem.Footprint {
	return db.Sizes.Compute(db.ZoneCounts())
}

// Footprint returns the footprint of the whole database.
func (db *Database) Footprint() tzmem.Footprint {
	return db.Sizes.Compute(db.Counts())
}
