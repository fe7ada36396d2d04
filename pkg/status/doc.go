/*
Package status tracks which source files have been migrated.

	+-----------------+        +------------------------------+
	|  Orchestrator   | -----> |  migration-status.json       |
	|  (only writer)  |        |  { path: {migrated, keys} }  |
	+-----------------+        +------------------------------+

🎯 Purpose:
- Decide skip/retry for each file on resume
- Record the key names found for each migrated file

🔄 Flow:
1. Load the full map (absent or malformed file means empty)
2. Overwrite the entry for one file
3. Write the full map back through a temp file + rename

A file is only marked migrated after its rewrite is on disk and at least one
key was found. Files with no keys and files that failed share the same
{migrated: false, keys: []} record, so both are retried on the next run.

🔍 Example:

	st := status.New(".i18nmigrate/migration-status.json")
	if !st.IsMigrated(ctx, "src/App.tsx") {
		// ... migrate ...
		st.Update(ctx, "src/App.tsx", []string{"welcome-message"}, true)
	}
*/
package status
