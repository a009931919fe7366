package models

var tablePrefix string

// SetTablePrefix namespaces every table name, e.g. SetTablePrefix("adp")
// maps timecards to adp.timecards. Called once at startup from the
// DB_SCHEMA setting, before any query runs.
func SetTablePrefix(schema string) {
	if schema == "" {
		tablePrefix = ""
		return
	}
	tablePrefix = schema + "."
}

func tableName(name string) string {
	return tablePrefix + name
}
