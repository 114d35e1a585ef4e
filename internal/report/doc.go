// Package report renders a reconcile.Report for people and for Prometheus.
//
// Print writes one line per artifact plus a summary. Failed updates, where
// the old jar sits in the backup directory and the new one never arrived,
// get their own loud section with the backup path so they can be fixed by
// hand. WriteMetrics exports the same counts in the node_exporter textfile
// format.
package report
