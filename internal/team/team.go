// Package team maps raw scraped team names to tracked Korean teams and
// their storage tables. Pure lookup, no state.
package team

// Team is a resolved registry entry. Table is empty for teams that are
// not tracked — matches for those are never persisted.
type Team struct {
	Name  string // canonical display name (Korean)
	Table string // storage table, one per tracked team
}

// Table name constants — single source of truth, matches schema.
const (
	T1Table   = "t1_matches"
	GenGTable = "geng_matches"
	HLETable  = "hle_matches"
	KTTable   = "kt_matches"
)

// registry maps every alias the schedule page has been observed to use.
// Closed table: extend it when the roster changes, and keep
// TestRegistryCoversAllTables in sync.
var registry = map[string]Team{
	"T1":                  {Name: "티원", Table: T1Table},
	"티원":                  {Name: "티원", Table: T1Table},
	"Gen.G":               {Name: "젠지", Table: GenGTable},
	"젠지":                  {Name: "젠지", Table: GenGTable},
	"GEN":                 {Name: "젠지", Table: GenGTable},
	"Hanwha Life Esports": {Name: "한화", Table: HLETable},
	"한화생명":                {Name: "한화", Table: HLETable},
	"한화생명e스포츠":            {Name: "한화", Table: HLETable},
	"HLE":                 {Name: "한화", Table: HLETable},
	"kt 롤스터":              {Name: "kt 롤스터", Table: KTTable},
	"KT":                  {Name: "kt 롤스터", Table: KTTable},
}

// Resolve looks up a raw scraped name. Unknown names are a valid outcome,
// not an error: the raw name is kept as the display name and Table stays
// empty.
func Resolve(raw string) Team {
	if t, ok := registry[raw]; ok {
		return t
	}
	return Team{Name: raw}
}

// Tracked reports whether a raw name belongs to a tracked team.
func Tracked(raw string) bool {
	_, ok := registry[raw]
	return ok
}

// Tables returns the distinct storage tables, in a stable order.
// Used for bulk operations and the notification sweep.
func Tables() []string {
	return []string{T1Table, GenGTable, HLETable, KTTable}
}

// NameFor returns the canonical display name for a storage table.
func NameFor(table string) string {
	for _, t := range registry {
		if t.Table == table {
			return t.Name
		}
	}
	return table
}
