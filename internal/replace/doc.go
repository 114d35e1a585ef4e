// Package replace swaps an installed mod for a newer release. The old file
// is renamed into the backup directory first, then the new file is streamed
// into the mods directory. If the download fails the backup is left in
// place and the failure is returned as *UpdateFailedError so the caller can
// tell the user where their old file went.
package replace
