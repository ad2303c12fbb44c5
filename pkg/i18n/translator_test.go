package i18n

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeBundle writes a YAML bundle file into dir.
func writeBundle(t *testing.T, dir, language, content string) {
	t.Helper()

	path := filepath.Join(dir, language+".yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write bundle %s: %v", path, err)
	}
}

// TestTranslator_Defaults tests built-in texts without a bundle directory.
func TestTranslator_Defaults(t *testing.T) {
	tr := NewTranslator("")

	if got := tr.Resolve("heading.id", "en"); got != "Response ID" {
		t.Errorf("Resolve(heading.id) = %q, want 'Response ID'", got)
	}
	if got := tr.Resolve("answer.yes", "en"); got != "Yes" {
		t.Errorf("Resolve(answer.yes) = %q, want 'Yes'", got)
	}

	// Unknown keys resolve to themselves
	if got := tr.Resolve("no.such.key", "en"); got != "no.such.key" {
		t.Errorf("Resolve(no.such.key) = %q, want the key back", got)
	}
}

// TestTranslator_BundleOverride tests that a bundle file overrides the
// built-in texts for its language only.
func TestTranslator_BundleOverride(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "de", "heading.id: Antwort-ID\nanswer.yes: Ja\n")

	tr := NewTranslator(dir)

	if got := tr.Resolve("heading.id", "de"); got != "Antwort-ID" {
		t.Errorf("Resolve(heading.id, de) = %q, want 'Antwort-ID'", got)
	}

	// Keys the bundle does not translate fall back to English
	if got := tr.Resolve("heading.token", "de"); got != "Token" {
		t.Errorf("Resolve(heading.token, de) = %q, want English fallback", got)
	}

	// Other languages are unaffected
	if got := tr.Resolve("heading.id", "en"); got != "Response ID" {
		t.Errorf("Resolve(heading.id, en) = %q, want 'Response ID'", got)
	}
}

// TestTranslator_MissingBundle tests that a language without a bundle file
// degrades to the built-in defaults.
func TestTranslator_MissingBundle(t *testing.T) {
	tr := NewTranslator(t.TempDir())

	if got := tr.Resolve("heading.email", "fr"); got != "Email address" {
		t.Errorf("Resolve(heading.email, fr) = %q, want English default", got)
	}
}

// TestTranslator_EmptyLanguage tests that an empty language means the default
// language.
func TestTranslator_EmptyLanguage(t *testing.T) {
	tr := NewTranslator("")

	if got := tr.Resolve("heading.lastpage", ""); got != "Last page" {
		t.Errorf("Resolve with empty language = %q, want 'Last page'", got)
	}
}

// TestTranslator_CacheAndInvalidate tests that bundles are cached until
// Invalidate drops them.
func TestTranslator_CacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "de", "heading.id: Antwort-ID\n")

	tr := NewTranslator(dir)

	if got := tr.Resolve("heading.id", "de"); got != "Antwort-ID" {
		t.Fatalf("Resolve(heading.id, de) = %q, want 'Antwort-ID'", got)
	}

	// Changing the file does not affect the cached bundle
	writeBundle(t, dir, "de", "heading.id: Datensatz-ID\n")
	if got := tr.Resolve("heading.id", "de"); got != "Antwort-ID" {
		t.Errorf("Resolve after file change = %q, want cached 'Antwort-ID'", got)
	}

	// Invalidate reloads from disk
	tr.Invalidate()
	if got := tr.Resolve("heading.id", "de"); got != "Datensatz-ID" {
		t.Errorf("Resolve after Invalidate() = %q, want 'Datensatz-ID'", got)
	}
}

// TestTranslator_MalformedBundle tests that a broken bundle file degrades to
// the defaults instead of failing lookups.
func TestTranslator_MalformedBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "de", "heading.id: [this is\nnot a flat map\n")

	tr := NewTranslator(dir)

	if got := tr.Resolve("heading.id", "de"); got != "Response ID" {
		t.Errorf("Resolve with malformed bundle = %q, want English default", got)
	}
}

// TestTranslator_Languages tests listing available bundle languages.
func TestTranslator_Languages(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "de", "heading.id: Antwort-ID\n")
	if err := os.WriteFile(filepath.Join(dir, "fr.yml"), []byte("heading.id: Identifiant\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Not a bundle
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := NewTranslator(dir)

	got := tr.Languages()
	want := []string{"de", "en", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

// TestTranslator_NoDirectoryLanguages tests the language list without a
// bundle directory.
func TestTranslator_NoDirectoryLanguages(t *testing.T) {
	tr := NewTranslator("")

	got := tr.Languages()
	if len(got) != 1 || got[0] != DefaultLanguage {
		t.Errorf("Languages() = %v, want [%s]", got, DefaultLanguage)
	}
}
