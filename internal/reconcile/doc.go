// Package reconcile drives one pass over a mods directory. Each jar is
// identified in the registry (content hash first, then its embedded
// descriptor id, then a name search), compared by file name against the
// latest compatible release, and handed to the replacer when the names
// differ. Failures are recorded per artifact; only directory-level
// problems stop a run.
package reconcile
