/*
Package config loads the optional project configuration for i18nmigrate.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Find the project file (.i18nmigrate.yaml, .yml, .hcl or .json)
- Parse it with the parser registered for its extension
- Fill defaults and reject unknown presets, providers and bad globs

🔄 Flow:
1. Resolve an explicit --config path, or discover a file in the working dir
2. No file at all means Default()
3. Validate fills defaults and normalizes paths
4. CLI flags are applied on top by the commands

HCL files can read the environment through the env object:

	preset = "react"

	provider {
	  name     = "azure"
	  base_url = env.AZURE_OPENAI_ENDPOINT
	}

🔍 Example:

	cfg, err := config.Resolve(ctx, "", ".")
	if err != nil {
		return err
	}
	opts, err := cfg.CompletionOptions()
*/
package config
