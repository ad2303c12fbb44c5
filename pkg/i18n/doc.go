// Package i18n resolves dictionary keys to localized texts.
//
// Export headings for meta columns (response id, token, timestamps, ...) and
// a handful of fixed labels (Other, Comment, Yes, No) are not part of any
// survey's structure, so their texts come from translation bundles instead.
//
// # Bundles
//
// A bundle is a flat YAML map from dictionary key to text, stored as
// <dir>/<language>.yaml:
//
//	heading.id: Antwort-ID
//	heading.submitdate: Eingereicht am
//	answer.yes: Ja
//	answer.no: Nein
//
// Bundles are loaded lazily on first use and cached per language. Built-in
// English texts back every lookup, and a key missing everywhere resolves to
// itself, so a half-translated bundle never breaks an export.
//
// # Live Reload
//
// BundleWatcher watches the bundle directory and invalidates the translator's
// cache after a debounced burst of file events. Long-running hosts use it so
// translation fixes apply without a restart; one-shot exports do not need it.
package i18n
