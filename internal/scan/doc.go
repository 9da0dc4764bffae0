// Package scan locates attribute-decorated declarations in parsed
// compilation units.
//
// Two layers:
//
//   - Alias table builder: extracts `global using X = N.Target;` aliases from
//     the top-level directive list of every unit and merges them into one
//     program-wide table. The merged table is wrapped in *GlobalAliases so
//     unchanged alias sets compare by pointer identity across incremental runs.
//   - Attribute-target scanner: walks one unit depth-first, maintains a
//     local-alias stack for namespace scopes, and collects declarations whose
//     attribute name — after alias substitution — matches the requested
//     attribute name with or without the conventional "Attribute" suffix.
//
// Matching is byte-wise ordinal and case-sensitive: determinism across
// environments outranks human-friendliness. Alias resolution is recursive and
// cycle-guarded; a self-referential chain resolves to "no match".
package scan
