// Package config loads and validates unitypack's TOML configuration.
//
// Path fields left empty in the file keep their empty value through loading;
// the catalog resolves them against the working directory at construction
// time, matching the tool's documented defaults.
package config
