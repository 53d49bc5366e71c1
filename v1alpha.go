package bufyaml

// DefaultVersion is the config version assumed when a document does not
// declare one.
const DefaultVersion = "v1alpha"

func init() {
	RegisterSchema(v1alpha())
}

// v1alpha builds the schema tables for the v1alpha config format.
//
// Table keys use the canonical dotted path form; a trailing [] marks
// "item of the sequence bound to this key". The five kind sets
// (booleans, sequences, maps, strings, urls) are disjoint; anyValues
// overlaps sequences only for plugin opts, which accept a single string
// or a list.
func v1alpha() *Schema {
	return &Schema{
		version: "v1alpha",

		keys: map[string][]string{
			"":         {"version", "deps", "generate", "lint", "breaking"},
			"generate": {"plugins", "inputs"},
			"generate.plugins[]": {
				"remote", "path", "command", "name",
				"out", "opts", "with_imports",
			},
			"generate.inputs[]":           {"directory", "git_repo"},
			"generate.inputs[].directory": {"path", "root"},
			"generate.inputs[].git_repo":  {"url", "sub_directory", "root"},
			"lint": {
				"use", "except", "ignore", "ignore_only",
				"allow_comment_ignores",
				"enum_zero_value_suffix",
				"rpc_allow_same_request_response",
				"rpc_allow_google_protobuf_empty_requests",
				"rpc_allow_google_protobuf_empty_responses",
				"service_suffix",
			},
			"breaking": {"use", "except", "ignore", "ignore_only"},
		},

		starters: map[string][]string{
			"generate.plugins[]": {"remote", "path", "command", "name"},
		},

		enums: map[string][]string{
			"version": {"v1alpha"},
		},

		booleans: map[string]bool{
			"generate.plugins[].with_imports":                true,
			"lint.allow_comment_ignores":                     true,
			"lint.rpc_allow_same_request_response":           true,
			"lint.rpc_allow_google_protobuf_empty_requests":  true,
			"lint.rpc_allow_google_protobuf_empty_responses": true,
		},

		sequences: map[string]bool{
			"deps":                       true,
			"generate.plugins":           true,
			"generate.inputs":            true,
			"generate.plugins[].command": true,
			"generate.plugins[].opts":    true,
			"lint.use":                   true,
			"lint.except":                true,
			"lint.ignore":                true,
			"breaking.use":               true,
			"breaking.except":            true,
			"breaking.ignore":            true,
		},

		maps: map[string]bool{
			"generate":                    true,
			"lint":                        true,
			"breaking":                    true,
			"lint.ignore_only":            true,
			"breaking.ignore_only":        true,
			"generate.inputs[].directory": true,
			"generate.inputs[].git_repo":  true,
		},

		strings: map[string]bool{
			"generate.plugins[].name":               true,
			"generate.plugins[].remote":             true,
			"generate.plugins[].path":               true,
			"generate.plugins[].out":                true,
			"generate.inputs[].directory.path":      true,
			"generate.inputs[].directory.root":      true,
			"generate.inputs[].git_repo.sub_directory": true,
			"generate.inputs[].git_repo.root":          true,
			"lint.enum_zero_value_suffix":              true,
			"lint.service_suffix":                      true,
		},

		urls: map[string]bool{
			"generate.inputs[].git_repo.url": true,
		},

		anyValues: map[string]bool{
			"generate.plugins[].opts": true,
		},

		scalarItems: map[string]bool{
			"deps[]":                       true,
			"generate.plugins[].command[]": true,
			"generate.plugins[].opts[]":    true,
			"lint.use[]":                   true,
			"lint.except[]":                true,
			"lint.ignore[]":                true,
			"breaking.use[]":               true,
			"breaking.except[]":            true,
			"breaking.ignore[]":            true,
		},

		docs: map[string]string{
			"version":  "Config format version. Only v1alpha is supported.",
			"deps":     "Module dependencies resolved into the local cache.",
			"generate": "Code generation configuration: plugins to run and inputs to run them on.",
			"lint":     "Lint rule configuration applied to local proto files.",
			"breaking": "Breaking-change detection configuration.",

			"generate.plugins": "Plugins to invoke, in order, during generation.",
			"generate.inputs":  "Inputs (local directories or remote repositories) to generate from.",

			"generate.plugins[].remote":       "Remote plugin reference, e.g. buf.build/protocolbuffers/go.",
			"generate.plugins[].path":         "Path to a protoc plugin binary on disk.",
			"generate.plugins[].command":      "Command and arguments to invoke as the plugin.",
			"generate.plugins[].name":         "Name of a protoc-gen-<name> binary found on PATH.",
			"generate.plugins[].out":          "Output directory for this plugin's generated files.",
			"generate.plugins[].opts":         "Options passed to the plugin, a single string or a list.",
			"generate.plugins[].with_imports": "Also generate code for imported files.",

			"generate.inputs[].directory":      "Generate from a local directory.",
			"generate.inputs[].directory.path": "Directory path relative to this config file.",
			"generate.inputs[].directory.root": "Root used to resolve import paths within the directory.",

			"generate.inputs[].git_repo":               "Generate from a remote git repository.",
			"generate.inputs[].git_repo.url":           "Clone URL of the repository.",
			"generate.inputs[].git_repo.sub_directory": "Subdirectory within the repository to use as input.",
			"generate.inputs[].git_repo.root":          "Root used to resolve import paths within the checkout.",

			"lint.use":                   "Lint rule IDs or categories to enable.",
			"lint.except":                "Rule IDs or categories to remove from the used set.",
			"lint.ignore":                "File or directory paths to exclude from linting entirely.",
			"lint.ignore_only":           "Map of rule ID to paths ignored for that rule only.",
			"lint.allow_comment_ignores": "Allow buf:lint:ignore comment directives in proto files.",
			"lint.enum_zero_value_suffix":               "Required suffix for enum zero values.",
			"lint.rpc_allow_same_request_response":      "Permit an RPC to use one message for both request and response.",
			"lint.rpc_allow_google_protobuf_empty_requests":  "Permit google.protobuf.Empty as an RPC request.",
			"lint.rpc_allow_google_protobuf_empty_responses": "Permit google.protobuf.Empty as an RPC response.",
			"lint.service_suffix":                            "Required suffix for service names.",

			"breaking.use":         "Breaking rule IDs or categories to enable.",
			"breaking.except":      "Rule IDs or categories to remove from the used set.",
			"breaking.ignore":      "File or directory paths to exclude from breaking-change checks.",
			"breaking.ignore_only": "Map of rule ID to paths ignored for that rule only.",
		},
	}
}
