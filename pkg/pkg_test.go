package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "bexl" {
		t.Errorf("Name = %q, want bexl", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("reading VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version != want {
		t.Errorf("Version = %q, want %q", Version, want)
	}

	if strings.ContainsAny(Version, " \n") {
		t.Errorf("Version %q contains whitespace", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Author = %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPaths(t *testing.T) {
	if Prefix() == "" || strings.HasPrefix(Prefix(), ".") {
		t.Errorf("Prefix() = %q", Prefix())
	}

	if got := ConfigPath("config.yaml"); got != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}

	if got := CachePath("history"); got != filepath.Join(CacheDir(), "history") {
		t.Errorf("CachePath = %q", got)
	}

	if filepath.Base(ConfigDir()) != Prefix() || filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("directories %q and %q are not named by the prefix", ConfigDir(), CacheDir())
	}
}
