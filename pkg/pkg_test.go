package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "toolconf"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to locate test source")
	}

	buf, err := os.ReadFile(filepath.Join(filepath.Dir(file), "VERSION"))
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); VersionString() != content {
		t.Errorf("Expected Version to be %q, got %q", content, VersionString())
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Error("Expected Author to contain ardnew")
	}
}

func TestErrorIsMatchesDerived(t *testing.T) {
	err := ErrToolNotFound.
		With(slog.String("tool", "CC")).
		Wrapf("%s", "gcc")

	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("errors.Is(%v, ErrToolNotFound) = false", err)
	}

	if errors.Is(err, ErrToolNotExecutable) {
		t.Errorf("errors.Is(%v, ErrToolNotExecutable) = true", err)
	}

	wrapped := fmt.Errorf("configure: %w", err)
	if !errors.Is(wrapped, ErrToolNotFound) {
		t.Errorf("errors.Is through fmt wrapping = false")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"msg only", NewError("boom"), "boom"},
		{"msg and cause", NewError("boom").Wrap(errors.New("why")), "boom: why"},
		{"cause only", WrapError(errors.New("why")), "why"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrMissingRequired.
		With(slog.String("function", "F")).
		Wrap(errors.New("BAR"))

	group := err.LogValue().Group()

	keys := make([]string, 0, len(group))
	for _, a := range group {
		keys = append(keys, a.Key)
	}

	want := []string{"error", "cause", "function"}
	if !slices.Equal(keys, want) {
		t.Errorf("LogValue keys = %v, want %v", keys, want)
	}
}

func TestWrapErrorKeepsError(t *testing.T) {
	base := ErrInternal.With(slog.Int("n", 1))
	if got := WrapError(fmt.Errorf("ctx: %w", base)); got != base {
		t.Errorf("WrapError did not return the wrapped *Error")
	}
}

func TestHelpFirstEntryWins(t *testing.T) {
	var h Help

	if !h.Add("CC", "Override default value for CC") {
		t.Fatal("first Add(CC) reported duplicate")
	}

	h.Add("--enable-debug", "Enable debug [false]")

	if h.Add("CC", "something else") {
		t.Error("second Add(CC) reported new entry")
	}

	got := h.Entries()
	if len(got) != 2 || got[0].Text != "Override default value for CC" {
		t.Errorf("Entries() = %v", got)
	}

	sorted := h.Sorted()
	if sorted[0].Name != "--enable-debug" || sorted[1].Name != "CC" {
		t.Errorf("Sorted() = %v", sorted)
	}

	got[0].Name = "mutated"
	if h.Entries()[0].Name != "CC" {
		t.Error("Entries() returned internal storage")
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath(ConfigFile)

	if filepath.Base(got) != ConfigFile {
		t.Errorf("ConfigPath(%q) = %q", ConfigFile, got)
	}

	if filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigPath dir = %q, want %q", filepath.Dir(got), ConfigDir())
	}

	if Prefix() == "" || strings.HasPrefix(Prefix(), ".") {
		t.Errorf("Prefix() = %q", Prefix())
	}
}
