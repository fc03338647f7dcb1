package workflow

import "fmt"

// SchemaVersion is the current shape of persisted workflow records
const SchemaVersion = "2"

// A migration upgrades a raw record from one schema version to the next
type migration func(map[string]interface{}) (map[string]interface{}, error)

// migrations maps a record's declared version to the transform that
// upgrades it one step. New versions add entries here; old entries are
// never touched.
var migrations = map[string]migration{
	"1": migrateV1,
}

// Migrate upgrades a raw persisted record to the current schema version
func Migrate(raw map[string]interface{}) (map[string]interface{}, error) {
	for {
		version := recordVersion(raw)
		if version == SchemaVersion {
			return raw, nil
		}
		step, ok := migrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration for schema version %q", version)
		}
		next, err := step(raw)
		if err != nil {
			return nil, fmt.Errorf("migration from version %q failed: %w", version, err)
		}
		if recordVersion(next) == version {
			return nil, fmt.Errorf("migration from version %q did not advance", version)
		}
		raw = next
	}
}

// recordVersion reads the declared schema version of a raw record.
// Version 1 records carried a top-level version field; later versions
// moved it under metadata.
func recordVersion(raw map[string]interface{}) string {
	if meta, ok := raw["metadata"].(map[string]interface{}); ok {
		if v, ok := meta["version"].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := raw["version"].(string); ok && v != "" {
		return v
	}
	return "1"
}

// migrateV1 upgrades version 1 records: the flat statuses map becomes
// module_status with a status key per entry, and the top-level version and
// updated fields move under metadata.
func migrateV1(raw map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		switch k {
		case "version", "updated", "statuses":
		default:
			out[k] = v
		}
	}

	meta := map[string]interface{}{"version": "2"}
	if updated, ok := raw["updated"]; ok {
		meta["updated_at"] = updated
		meta["created_at"] = updated
	}
	out["metadata"] = meta

	if statuses, ok := raw["statuses"].(map[string]interface{}); ok {
		moduleStatus := make(map[string]interface{}, len(statuses))
		for name, entry := range statuses {
			switch e := entry.(type) {
			case string:
				moduleStatus[name] = map[string]interface{}{"name": name, "status": e}
			case map[string]interface{}:
				upgraded := make(map[string]interface{}, len(e)+1)
				for k, v := range e {
					if k == "state" {
						upgraded["status"] = v
						continue
					}
					upgraded[k] = v
				}
				upgraded["name"] = name
				moduleStatus[name] = upgraded
			default:
				return nil, fmt.Errorf("module %s has malformed status entry", name)
			}
		}
		out["module_status"] = moduleStatus
	}

	return out, nil
}
