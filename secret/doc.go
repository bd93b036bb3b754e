// Package secret resolves environment references and secret references in
// configuration values.
//
// It supports:
//   - Environment expansion, lenient (ExpandEnv) or strict (ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Built-in providers for environment variables and mounted files
//
// References use the prefix "secretref:":
//   - Full value:  secretref:file:/run/secrets/db_password
//   - Inline use:  postgres://app:secretref:env:DB_PASSWORD@db:5432/app
//
// Expansion reads through a LookupFunc so callers decide where variables come
// from; nothing in this package reads the process environment unless handed
// os.LookupEnv.
package secret
